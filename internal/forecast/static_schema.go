package forecast

import "strconv"

// hashedFeatureCount is the number of H<n> columns the sales model was trained with.
const hashedFeatureCount = 50

// DefaultStaticSchema returns the literal column list the sales model was trained on.
// It is used when the model does not report its own feature names.
func DefaultStaticSchema() []string {
	cols := []string{"Item_Weight", "Item_Visibility", "Item_MRP", "Outlet_Establishment_Year"}
	for i := 0; i < hashedFeatureCount; i++ {
		cols = append(cols, "H"+strconv.Itoa(i))
	}
	return append(cols,
		"Item_Fat_Content_Edible", "Item_Fat_Content_Low Fat", "Item_Fat_Content_Regular",
		"Item_Type_Drink", "Item_Type_Food", "Item_Type_Non_Consumables",
		"Outlet_Identifier_OUT010", "Outlet_Identifier_OUT013", "Outlet_Identifier_OUT017",
		"Outlet_Identifier_OUT018", "Outlet_Identifier_OUT019", "Outlet_Identifier_OUT027",
		"Outlet_Identifier_OUT035", "Outlet_Identifier_OUT045", "Outlet_Identifier_OUT046",
		"Outlet_Identifier_OUT049",
		"Outlet_Size_High", "Outlet_Size_Medium", "Outlet_Size_Small",
		"Outlet_Location_Type_Tier 1", "Outlet_Location_Type_Tier 2", "Outlet_Location_Type_Tier 3",
		"Outlet_Type_Grocery Store", "Outlet_Type_Supermarket Type1",
		"Outlet_Type_Supermarket Type2", "Outlet_Type_Supermarket Type3",
	)
}
