package sources

import (
	"time"

	"github.com/questkit/jobscout/internal/entities"
)

// FallbackJobs returns the deterministic sample set served when every
// source fails or nothing matched. Callers receive a fresh copy.
func FallbackJobs(now time.Time) []entities.Job {
	jobs := []entities.Job{
		{
			ID:          "fallback-1",
			Title:       "Gameplay Programmer",
			Company:     "Pixel Forge Studios",
			Location:    "Remote",
			ParsedLocation: entities.ParsedLocation{Remote: true},
			Type:        entities.FullTime,
			Description: "Implement gameplay systems in Unreal Engine for an unannounced action title. Strong C++ and a shipped title are a plus.",
			Salary:      "$85,000 - $120,000 / year",
			ParsedSalary: entities.ParsedSalary{
				Min: 85000, Max: 120000, Currency: "USD", Period: "year",
			},
			ApplyURL:     "https://careers.pixelforge.example/gameplay-programmer",
			PostedAt:     "recently",
			PublishedAt:  now.AddDate(0, 0, -2),
			Source:       "fallback",
			Requirements: []string{"C++", "Unreal Engine", "3+ years experience"},
			Tags:         []string{"unreal", "c++", "gameplay"},
			Verified:     true,
		},
		{
			ID:          "fallback-2",
			Title:       "Unity Developer",
			Company:     "Moonlight Interactive",
			Location:    "Austin, TX",
			ParsedLocation: entities.ParsedLocation{City: "Austin", State: "TX", Country: "USA"},
			Type:        entities.FullTime,
			Description: "Build mobile games in Unity with C# scripting. You will own features end to end from prototype to live ops.",
			Salary:      "$75,000 - $105,000 / year",
			ParsedSalary: entities.ParsedSalary{
				Min: 75000, Max: 105000, Currency: "USD", Period: "year",
			},
			ApplyURL:     "https://moonlight.example/jobs/unity-developer",
			PostedAt:     "recently",
			PublishedAt:  now.AddDate(0, 0, -4),
			Source:       "fallback",
			Requirements: []string{"Unity", "C#", "mobile"},
			Tags:         []string{"unity", "c#", "mobile"},
			Verified:     true,
		},
		{
			ID:          "fallback-3",
			Title:       "Senior Game Designer",
			Company:     "Starlane Games",
			Location:    "Remote (US)",
			ParsedLocation: entities.ParsedLocation{Country: "US", Remote: true},
			Type:        entities.FullTime,
			Description: "Design core loops and progression systems for a live multiplayer RPG. Experience with systems design and economy balancing required.",
			Salary:      "$95,000 - $135,000 / year",
			ParsedSalary: entities.ParsedSalary{
				Min: 95000, Max: 135000, Currency: "USD", Period: "year",
			},
			ApplyURL:     "https://starlane.example/careers/senior-game-designer",
			PostedAt:     "recently",
			PublishedAt:  now.AddDate(0, 0, -1),
			Source:       "fallback",
			Requirements: []string{"systems design", "5+ years experience"},
			Tags:         []string{"design", "multiplayer", "rpg"},
			Verified:     true,
		},
		{
			ID:          "fallback-4",
			Title:       "QA Tester",
			Company:     "Pixel Forge Studios",
			Location:    "Montreal, QC, Canada",
			ParsedLocation: entities.ParsedLocation{City: "Montreal", State: "QC", Country: "Canada"},
			Type:        entities.Contract,
			Description: "Test builds across console and PC platforms, write repro steps and verify fixes.",
			Salary:      "$45,000 - $60,000 / year",
			ParsedSalary: entities.ParsedSalary{
				Min: 45000, Max: 60000, Currency: "USD", Period: "year",
			},
			ApplyURL:     "https://careers.pixelforge.example/qa-tester",
			PostedAt:     "recently",
			PublishedAt:  now.AddDate(0, 0, -6),
			Source:       "fallback",
			Requirements: []string{"attention to detail"},
			Tags:         []string{"qa", "testing"},
		},
	}
	return jobs
}
