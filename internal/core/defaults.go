package core

// DefaultCategories returns the seed set of a fresh store: eight expense
// buckets followed by five income buckets.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Name: "식비", Type: Expense},
		{ID: "2", Name: "주거비", Type: Expense},
		{ID: "3", Name: "교통비", Type: Expense},
		{ID: "4", Name: "쇼핑", Type: Expense},
		{ID: "5", Name: "의료비", Type: Expense},
		{ID: "6", Name: "여가", Type: Expense},
		{ID: "7", Name: "교육", Type: Expense},
		{ID: "8", Name: "기타지출", Type: Expense},
		{ID: "9", Name: "급여", Type: Income},
		{ID: "10", Name: "보너스", Type: Income},
		{ID: "11", Name: "투자수익", Type: Income},
		{ID: "12", Name: "용돈", Type: Income},
		{ID: "13", Name: "기타수입", Type: Income},
	}
}

func DefaultUserSettings() UserSettings {
	return UserSettings{
		UserName: "홍길동",
		Email:    "user@example.com",
		Theme:    "system",
	}
}
