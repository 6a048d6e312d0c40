package completion

import (
	"fmt"
	"strings"

	"github.com/project-roulette/engine/internal/models"
)

// SystemPrompt sets the persona for every generation.
const SystemPrompt = "You are an expert coding mentor and project architect who creates comprehensive, " +
	"detailed project specifications. Always format responses exactly as requested with proper markdown. " +
	"Make each project unique, specific, inspiring, and perfectly suited to the team composition and skill levels. " +
	"Include detailed technical guidance and resource recommendations."

const (
	minutesPerHour = 60
	minutesPerDay  = 1440
)

// TimeLabel renders a budget in the largest whole unit below it. Division
// floors and units are never singularised: 90 -> "1 hours".
func TimeLabel(minutes int) string {
	switch {
	case minutes < minutesPerHour:
		return fmt.Sprintf("%d minutes", minutes)
	case minutes < minutesPerDay:
		return fmt.Sprintf("%d hours", minutes/minutesPerHour)
	default:
		return fmt.Sprintf("%d days", minutes/minutesPerDay)
	}
}

// phaseShares are the roadmap proportions in percent. They sum to 100; the
// floored phases may not.
var phaseShares = [3]int{30, 50, 20}

// PhaseSplit returns the floored minutes of the three roadmap phases.
func PhaseSplit(minutes int) [3]int {
	var out [3]int
	for i, share := range phaseShares {
		out[i] = minutes * share / 100
	}
	return out
}

func teamSize(p models.ProjectParameters) string {
	if p.ParticipantCount == 1 {
		return "1 person (solo)"
	}
	return fmt.Sprintf("%d people", p.ParticipantCount)
}

func developers(p models.ProjectParameters) string {
	if p.ParticipantCount == 1 {
		return "1 developer"
	}
	return fmt.Sprintf("%d developers", p.ParticipantCount)
}

// BuildPrompt renders the user message for a generation request. The output
// depends only on params.
func BuildPrompt(p models.ProjectParameters) string {
	timeLabel := TimeLabel(p.TimeBudgetMinutes)
	phases := PhaseSplit(p.TimeBudgetMinutes)
	withRoster := p.IsTeam() && len(p.TeamMembers) > 0

	var b strings.Builder

	b.WriteString("Generate a detailed and comprehensive coding project idea with the following specifications:\n\n")

	b.WriteString("**Requirements:**\n")
	fmt.Fprintf(&b, "- Programming Language: %s\n", p.Language)
	fmt.Fprintf(&b, "- Time Available: %s\n", timeLabel)
	fmt.Fprintf(&b, "- Team Size: %s\n", teamSize(p))
	fmt.Fprintf(&b, "- Project Type: %s\n", p.ProjectType)
	fmt.Fprintf(&b, "- Difficulty Level: %s\n", p.Difficulty)
	if withRoster {
		b.WriteString("\n**Team Members:**\n")
		for _, m := range p.TeamMembers {
			fmt.Fprintf(&b, "- %s (%s)\n", m.Name, m.Expertise)
		}
	}

	b.WriteString(`
**Instructions:**
Create a project that is:
1. Achievable within the given timeframe
2. Appropriate for the team size and expertise levels
3. Educational, engaging, and fun to build
4. Has clear, actionable implementation steps
5. Includes specific features with detailed descriptions
6. Provides comprehensive resource recommendations
7. Assigns specific roles and responsibilities for team members

**Format your response EXACTLY as follows:**

# 🎯 [Creative Project Title]

## 📋 Project Overview
[3-4 sentences describing what to build, why it's exciting, and what users will learn]

## ✨ Core Features
• **[Feature 1 Name]**: [Detailed description of functionality and implementation approach]
• **[Feature 2 Name]**: [Detailed description of functionality and implementation approach]
• **[Feature 3 Name]**: [Detailed description of functionality and implementation approach]
• **[Feature 4 Name]**: [Detailed description of functionality and implementation approach]

## 🚀 Implementation Roadmap
`)
	fmt.Fprintf(&b, "1. **Phase 1 - Foundation** (%s): [Detailed setup and core structure steps]\n", TimeLabel(phases[0]))
	fmt.Fprintf(&b, "2. **Phase 2 - Core Development** (%s): [Main feature implementation steps]\n", TimeLabel(phases[1]))
	fmt.Fprintf(&b, "3. **Phase 3 - Polish & Deploy** (%s): [Testing, styling, and deployment steps]\n", TimeLabel(phases[2]))

	if p.IsTeam() {
		b.WriteString("\n## 👥 Team Responsibilities\n")
		if withRoster {
			for _, m := range p.TeamMembers {
				fmt.Fprintf(&b, "• **%s** (%s): [Specific tasks and responsibilities based on their expertise]\n", m.Name, m.Expertise)
			}
		} else {
			b.WriteString("• [Role assignments based on team size and skills]\n")
		}
	}

	b.WriteString("\n## 📚 Learning Resources\n")
	b.WriteString(`• **Documentation**: [Specific official docs and guides]
• **Tutorials**: [Recommended video tutorials and courses]
• **Tools**: [Development tools, IDEs, and extensions]
• **Libraries**: [Specific packages and dependencies with installation commands]

## 🛠️ Tech Stack & Setup
**Required Tools:**
• [Specific development environment setup]
• [Database/storage requirements if applicable]
• [API keys or external services needed]

**Dependencies:**
` + "```bash\n[Specific installation commands for the project]\n```" + `

## 💡 Advanced Challenges
• **Level 1**: [Moderate enhancement ideas]
• **Level 2**: [Advanced feature additions]
• **Level 3**: [Expert-level optimizations and integrations]

## 🎯 Success Metrics
• [Specific deliverables to measure completion]
• [Performance benchmarks or user experience goals]
• [Portfolio-worthy outcomes]

---
`)
	fmt.Fprintf(&b, "*Project Complexity: %s | Estimated Time: %s | Team Size: %s*\n\n", p.Difficulty, timeLabel, developers(p))
	fmt.Fprintf(&b, "Make this project exciting, educational, and perfectly tailored to the %s ecosystem with %s difficulty level!", p.Language, p.Difficulty)

	return b.String()
}
