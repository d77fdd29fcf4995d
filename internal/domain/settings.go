package domain

// MealTimings are the canteen-wide toggles controlling which meal categories
// are currently orderable.
type MealTimings struct {
	Breakfast bool `json:"breakfast"`
	Lunch     bool `json:"lunch"`
	Dinner    bool `json:"dinner"`
	Snacks    bool `json:"snacks"`
}

// MealTimingsPatch is a partial update; nil fields are left unchanged.
type MealTimingsPatch struct {
	Breakfast *bool `json:"breakfast"`
	Lunch     *bool `json:"lunch"`
	Dinner    *bool `json:"dinner"`
	Snacks    *bool `json:"snacks"`
}

func (t MealTimings) Apply(p MealTimingsPatch) MealTimings {
	if p.Breakfast != nil {
		t.Breakfast = *p.Breakfast
	}
	if p.Lunch != nil {
		t.Lunch = *p.Lunch
	}
	if p.Dinner != nil {
		t.Dinner = *p.Dinner
	}
	if p.Snacks != nil {
		t.Snacks = *p.Snacks
	}
	return t
}
