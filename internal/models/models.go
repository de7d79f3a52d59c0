package models

// All lists every model the database layer migrates.
func All() []any {
	return []any{
		&User{},
		&Trip{},
		&Activity{},
		&Expense{},
		&Checklist{},
		&RevokedToken{},
	}
}
