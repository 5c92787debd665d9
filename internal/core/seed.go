package core

import (
	"fmt"
	"math/rand"
	"time"
)

// Constant pools for synthetic data. Values mirror the production
// dataset's domains so seeded files exercise the full schema.
var (
	seedInvestigators = []string{
		"김지원", "이성민", "박도현", "정수진", "최영호",
		"강민서", "윤지현", "송태호", "임하늘", "한소희",
	}
	seedDepartments = []string{
		"생명과학부", "물리학과", "화학과", "컴퓨터공학과",
		"전자공학과", "기계공학과", "의학과", "약학과",
	}
	seedAreas = []string{
		"인공지능", "신약개발", "재생에너지", "나노기술",
		"로보틱스", "바이오테크", "양자컴퓨팅", "신소재",
	}
)

// Seed builds a dataset of n schema-valid synthetic projects around the
// given reference time: budgets are multiples of 10,000 in
// [50,000,000, 500,000,000), progress 0-100, start dates within the
// past year, end dates 30-730 days out, comments empty.
func Seed(n int, now time.Time, rng *rand.Rand) *Dataset {
	day := now.Truncate(24 * time.Hour)

	ds := &Dataset{Projects: make([]Project, n)}
	for i := 0; i < n; i++ {
		ds.Projects[i] = Project{
			ID:           fmt.Sprintf("PRJ-%03d", i+1),
			Name:         fmt.Sprintf("Research Project %d", i+1),
			Investigator: seedInvestigators[rng.Intn(len(seedInvestigators))],
			Department:   seedDepartments[rng.Intn(len(seedDepartments))],
			StartDate:    day.AddDate(0, 0, -rng.Intn(365)),
			EndDate:      day.AddDate(0, 0, 30+rng.Intn(700)),
			Budget:       int64(5000+rng.Intn(45000)) * 10000,
			Progress:     rng.Intn(101),
			ResearchArea: seedAreas[rng.Intn(len(seedAreas))],
			Status:       Statuses[rng.Intn(len(Statuses))],
			Phase:        Phases[rng.Intn(len(Phases))],
		}
	}
	return ds
}
