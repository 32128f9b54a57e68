package categories

import "github.com/kitchenbook/kitchenbook/internal/model"

// DefaultSet returns the starting categories for a business type.
func DefaultSet(businessType string) []model.Category {
	switch businessType {
	case "cloud_kitchen":
		return cloudKitchenSet()
	default:
		return cloudKitchenSet()
	}
}

func cloudKitchenSet() []model.Category {
	return []model.Category{
		{Name: "ingredients", Kind: model.KindExpense, DefaultRate: 9, Description: "Food and drink ingredients"},
		{Name: "packaging", Kind: model.KindExpense, DefaultRate: 21, Description: "Containers, bags and labels"},
		{Name: "utilities", Kind: model.KindExpense, DefaultRate: 21, Description: "Energy, water and internet"},
		{Name: "rent", Kind: model.KindExpense, DefaultRate: 0, Description: "Kitchen rent"},
		{Name: "marketing", Kind: model.KindExpense, DefaultRate: 21, Description: "Advertising and promotion"},
		{Name: "equipment", Kind: model.KindExpense, DefaultRate: 21, Description: "Kitchen equipment and tools"},
		{Name: "platform-fees", Kind: model.KindExpense, DefaultRate: 21, Description: "Delivery platform commissions"},
		{Name: "other", Kind: model.KindExpense, DefaultRate: 21},
		{Name: "food-sales", Kind: model.KindSale, DefaultRate: 9, Description: "Meals and takeaway orders"},
		{Name: "catering", Kind: model.KindSale, DefaultRate: 9, Description: "Events and bulk orders"},
		{Name: "drinks", Kind: model.KindSale, DefaultRate: 21, Description: "Alcoholic drinks"},
	}
}
