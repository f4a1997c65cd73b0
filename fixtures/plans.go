// Package fixtures provides the mock trip plans loaded by the seed commands.
package fixtures

import (
	"github.com/google/uuid"

	"tripscheduler/model"
)

// namespace derives stable trip ids, so every seed run upserts the same rows.
var namespace = uuid.MustParse("6f1c2a0e-8b43-4d55-9c1e-3a7d2b9f4e10")

// TripID returns the deterministic id of the fixture identified by slug.
func TripID(slug string) string {
	return uuid.NewSHA1(namespace, []byte(slug)).String()
}

// MockPlans returns the fixed, ordered fixture trips. Each call returns a
// fresh copy.
func MockPlans() []model.Trip {
	return []model.Trip{
		{
			ID:           TripID("paris"),
			Title:        "Большое путешествие в Париж",
			Description:  "Романтическая и культурная поездка в столицу Франции. От Эйфелевой башни до уютных улочек Монмартра.",
			ImageURL:     "/static/memories/paris-eiffel.png",
			StartDate:    "2024-06-01",
			EndDate:      "2024-06-03",
			Days:         3,
			Cities:       model.StringList{"Париж", "Версаль"},
			Status:       string(model.CompletedTrip),
			Budget:       150000,
			Currency:     "EUR",
			Participants: model.StringList{"Анна", "Михаил", "Елена"},
			Tags:         model.StringList{"романтика", "культура", "город", "франция", "гастрономия"},
			Visibility:   string(model.PrivateTrip),
		},
		{
			ID:          TripID("phuket"),
			Title:       "Сокровища Пхукета: от пляжей до Большого Будды",
			Description: "Пятидневное исследование жемчужины Таиланда — Пхукета. Пляжи Ката и Най Харн, Большой Будда и Старый город.",
			ImageURL:    "/static/route/phuket-promthep-cape.jpg",
			StartDate:   "2025-01-01",
			EndDate:     "2025-01-05",
			Days:        5,
			Cities:      model.StringList{"Пхукет"},
			Status:      string(model.DraftTrip),
			Budget:      80000,
			Currency:    "RUB",
			Tags:        model.StringList{"Таиланд", "Пхукет", "пляж", "море", "природа", "хайкинг", "культура"},
			Visibility:  string(model.PrivateTrip),
		},
		{
			ID:           TripID("shanghai"),
			Title:        "От Шанхая до Шелкового пути",
			Description:  "Двухнедельное приключение: футуристический Шанхай, сады Сучжоу и Ханчжоу и древний Урумчи.",
			ImageURL:     "/static/route/shanghai-bund.png",
			StartDate:    "2025-05-10",
			EndDate:      "2025-05-23",
			Days:         14,
			Cities:       model.StringList{"Шанхай", "Сучжоу", "Ханчжоу", "Урумчи"},
			Status:       string(model.CompletedTrip),
			Budget:       150000,
			Currency:     "RUB",
			Participants: model.StringList{"Анна", "Михаил"},
			Tags:         model.StringList{"Китай", "Шанхай", "Урумчи", "культура", "еда", "приключения"},
			Visibility:   string(model.PublicTrip),
		},
		{
			ID:          TripID("zhangjiajie"),
			Title:       "Горы Аватара и 8D-магия Чунцина",
			Description: "От культурных сокровищ Чанши до пейзажей Чжанцзяцзе, древнего Фэнхуана и 8D-реальности Чунцина.",
			ImageURL:    "/static/route/zhangjiajie-avatar.png",
			StartDate:   "2025-10-19",
			EndDate:     "2025-11-02",
			Days:        15,
			Cities:      model.StringList{"Чанша", "Чжанцзяцзе", "Фэнхуан", "Чунцин"},
			Status:      string(model.PlannedTrip),
			Budget:      250000,
			Currency:    "RUB",
			Tags:        model.StringList{"Китай", "Чжанцзяцзе", "Чунцин", "Горы Аватара", "природа", "хайкинг", "история"},
			Visibility:  string(model.PublicTrip),
		},
		{
			ID:           TripID("dublin"),
			Title:        "O'Brien's Trip",
			Description:  "A long weekend of Dublin's pubs, Howth's cliffs and a day out to Kilkenny.",
			StartDate:    "2026-03-14",
			EndDate:      "2026-03-17",
			Days:         4,
			Cities:       model.StringList{"Dublin", "Howth", "Kilkenny"},
			Status:       string(model.PlannedTrip),
			Budget:       1200.5,
			Currency:     "EUR",
			Participants: model.StringList{"Siobhán O'Brien", "Liam"},
			Visibility:   string(model.PrivateTrip),
		},
	}
}
