package model

// Category groups records for reporting, a row in categories.csv.
type Category struct {
	Name        string
	Kind        Kind
	DefaultRate int
	Description string
}
