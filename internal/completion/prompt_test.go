package completion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-roulette/engine/internal/models"
)

func soloParams() models.ProjectParameters {
	return models.ProjectParameters{
		Language:          "Go",
		TimeBudgetMinutes: 120,
		ParticipantCount:  1,
		ProjectType:       "CLI Tool",
		Difficulty:        models.DifficultyIntermediate,
	}
}

func teamParams() models.ProjectParameters {
	p := soloParams()
	p.ParticipantCount = 3
	p.TeamMembers = []models.TeamMember{
		{Name: "Ada", Expertise: "Backend Development"},
		{Name: "Grace", Expertise: "UI/UX Design"},
		{Name: "Linus", Expertise: "DevOps"},
	}
	return p
}

// section returns the prompt text between heading and the next "## " heading.
func section(prompt, heading string) string {
	start := strings.Index(prompt, heading)
	if start < 0 {
		return ""
	}
	rest := prompt[start+len(heading):]
	if end := strings.Index(rest, "\n## "); end >= 0 {
		rest = rest[:end]
	}
	return rest
}

func TestTimeLabel(t *testing.T) {
	cases := map[int]string{
		1:    "1 minutes",
		45:   "45 minutes",
		59:   "59 minutes",
		60:   "1 hours",
		90:   "1 hours",
		1439: "23 hours",
		1440: "1 days",
		2000: "1 days",
		2880: "2 days",
	}
	for in, want := range cases {
		assert.Equal(t, want, TimeLabel(in), "minutes=%d", in)
	}
}

func TestPhaseSplit(t *testing.T) {
	assert.Equal(t, [3]int{30, 50, 20}, PhaseSplit(100))
	assert.Equal(t, [3]int{13, 22, 9}, PhaseSplit(45))

	// Flooring may lose minutes but never invents them.
	for _, m := range []int{1, 7, 45, 100, 333, 1440, 10080} {
		s := PhaseSplit(m)
		assert.LessOrEqual(t, s[0]+s[1]+s[2], m)
	}
}

func TestBuildPromptSoloOmitsTeamSection(t *testing.T) {
	prompt := BuildPrompt(soloParams())

	assert.NotContains(t, prompt, "Team Responsibilities")
	assert.NotContains(t, prompt, "**Team Members:**")
	assert.Contains(t, prompt, "- Team Size: 1 person (solo)\n")
	assert.Contains(t, prompt, "Team Size: 1 developer*")
}

func TestBuildPromptEmbedsParameters(t *testing.T) {
	prompt := BuildPrompt(soloParams())

	assert.Contains(t, prompt, "- Programming Language: Go\n")
	assert.Contains(t, prompt, "- Time Available: 2 hours\n")
	assert.Contains(t, prompt, "- Project Type: CLI Tool\n")
	assert.Contains(t, prompt, "- Difficulty Level: Intermediate\n")
	assert.Contains(t, prompt, "*Project Complexity: Intermediate | Estimated Time: 2 hours | Team Size: 1 developer*")
	assert.True(t, strings.HasSuffix(prompt, "tailored to the Go ecosystem with Intermediate difficulty level!"))
	assert.Contains(t, prompt, "```bash\n[Specific installation commands for the project]\n```")
}

func TestBuildPromptOutlineOrder(t *testing.T) {
	prompt := BuildPrompt(teamParams())
	headings := []string{
		"# 🎯 [Creative Project Title]",
		"## 📋 Project Overview",
		"## ✨ Core Features",
		"## 🚀 Implementation Roadmap",
		"## 👥 Team Responsibilities",
		"## 📚 Learning Resources",
		"## 🛠️ Tech Stack & Setup",
		"## 💡 Advanced Challenges",
		"## 🎯 Success Metrics",
		"---\n*Project Complexity",
	}
	last := -1
	for _, h := range headings {
		idx := strings.Index(prompt, h)
		require.GreaterOrEqual(t, idx, 0, "missing %q", h)
		assert.Greater(t, idx, last, "%q out of order", h)
		last = idx
	}
}

func TestBuildPromptRoadmapUsesPhaseLabels(t *testing.T) {
	p := soloParams()
	p.TimeBudgetMinutes = 100
	roadmap := section(BuildPrompt(p), "## 🚀 Implementation Roadmap")

	assert.Contains(t, roadmap, "1. **Phase 1 - Foundation** (30 minutes):")
	assert.Contains(t, roadmap, "2. **Phase 2 - Core Development** (50 minutes):")
	assert.Contains(t, roadmap, "3. **Phase 3 - Polish & Deploy** (20 minutes):")
}

func TestBuildPromptTeamSectionListsMembersInOrder(t *testing.T) {
	p := teamParams()
	prompt := BuildPrompt(p)
	team := section(prompt, "## 👥 Team Responsibilities")

	var lines []string
	for _, line := range strings.Split(team, "\n") {
		if strings.HasPrefix(line, "• **") {
			lines = append(lines, line)
		}
	}
	require.Len(t, lines, len(p.TeamMembers))
	for i, m := range p.TeamMembers {
		assert.True(t, strings.HasPrefix(lines[i], "• **"+m.Name+"** ("+m.Expertise+"):"), lines[i])
	}

	assert.Contains(t, prompt, "- Team Size: 3 people\n")
	assert.Contains(t, prompt, "**Team Members:**\n- Ada (Backend Development)\n- Grace (UI/UX Design)\n- Linus (DevOps)\n")
	assert.Contains(t, prompt, "Team Size: 3 developers*")
}

func TestBuildPromptTeamWithoutRosterUsesPlaceholder(t *testing.T) {
	p := teamParams()
	p.TeamMembers = nil
	team := section(BuildPrompt(p), "## 👥 Team Responsibilities")

	assert.Contains(t, team, "• [Role assignments based on team size and skills]")
}

func TestBuildPromptDeterministic(t *testing.T) {
	assert.Equal(t, BuildPrompt(teamParams()), BuildPrompt(teamParams()))
}
