package investai

// AssetType classifies a holding into one of the supported investment
// categories. The set is closed: values outside it are rejected as
// invalid input rather than coerced.
type AssetType string

const (
	AssetStock      AssetType = "stock"
	AssetMutualFund AssetType = "mutual_fund"
	AssetETF        AssetType = "etf"
	AssetBond       AssetType = "bond"
	AssetCommodity  AssetType = "commodity"
	AssetCrypto     AssetType = "crypto"
	AssetRealEstate AssetType = "real_estate"
	AssetCash       AssetType = "cash"
	AssetOther      AssetType = "other"
)

// AssetTypes lists the supported asset types in canonical order. Allocation
// breakdowns follow this order so output stays stable across runs.
var AssetTypes = []AssetType{
	AssetStock,
	AssetMutualFund,
	AssetETF,
	AssetBond,
	AssetCommodity,
	AssetCrypto,
	AssetRealEstate,
	AssetCash,
	AssetOther,
}

var assetTypeLabels = map[AssetType]string{
	AssetStock:      "Stocks",
	AssetMutualFund: "Mutual Funds",
	AssetETF:        "ETFs",
	AssetBond:       "Bonds",
	AssetCommodity:  "Commodities",
	AssetCrypto:     "Cryptocurrency",
	AssetRealEstate: "Real Estate",
	AssetCash:       "Cash",
	AssetOther:      "Other",
}

// Valid reports whether t is one of the supported asset types.
func (t AssetType) Valid() bool {
	_, ok := assetTypeLabels[t]
	return ok
}

// Label returns the display label for the asset type, falling back to the
// raw code for unknown values.
func (t AssetType) Label() string {
	if label, ok := assetTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// AssetTypeInfo is the reference-data view of an asset type.
type AssetTypeInfo struct {
	Code  AssetType `json:"code"`
	Label string    `json:"label"`
}

// GetAssetTypes returns the asset type reference data from storage, in
// canonical order.
func (c *Core) GetAssetTypes() ([]AssetTypeInfo, error) {
	labels := map[string]string{}
	rows, err := c.db.Query("SELECT code, label FROM asset_types")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var code, label string
		if err := rows.Scan(&code, &label); err != nil {
			return nil, err
		}
		labels[code] = label
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	types := make([]AssetTypeInfo, 0, len(AssetTypes))
	for _, t := range AssetTypes {
		label := labels[string(t)]
		if label == "" {
			label = t.Label()
		}
		types = append(types, AssetTypeInfo{Code: t, Label: label})
	}
	return types, nil
}
