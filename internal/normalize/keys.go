package normalize

// Canonical keys and their fixed Vietnamese aliases. The canonical key wins
// when an item carries both.
const (
	KeyName         = "name"
	KeyURL          = "url"
	KeyProvince     = "province"
	KeyDistrict     = "district"
	KeyCategory     = "category"
	KeyArea         = "area"
	KeyUnits        = "units"
	KeyTowers       = "towers"
	KeyInvestor     = "investor"
	KeyAttributes   = "attributes"
	KeyPriceHistory = "priceHistory"
	KeyLatitude     = "latitude"
	KeyLongitude    = "longitude"

	AliasName         = "Tên dự án"
	AliasURL          = "Link"
	AliasProvince     = "Tỉnh/Thành phố"
	AliasDistrict     = "Quận/Huyện"
	AliasCategory     = "Loại hình"
	AliasArea         = "Diện tích"
	AliasUnits        = "Số căn"
	AliasTowers       = "Số tòa"
	AliasInvestor     = "Chủ đầu tư"
	AliasAttributes   = "Thông tin khác"
	AliasPriceHistory = "Lịch sử giá"
)

var (
	latitudeKeys  = []string{KeyLatitude, "lat", "Vĩ độ"}
	longitudeKeys = []string{KeyLongitude, "lng", "Kinh độ"}
)

type field struct {
	canonical string
	alias     string
}

var (
	nameField         = field{KeyName, AliasName}
	urlField          = field{KeyURL, AliasURL}
	provinceField     = field{KeyProvince, AliasProvince}
	districtField     = field{KeyDistrict, AliasDistrict}
	categoryField     = field{KeyCategory, AliasCategory}
	areaField         = field{KeyArea, AliasArea}
	unitsField        = field{KeyUnits, AliasUnits}
	towersField       = field{KeyTowers, AliasTowers}
	investorField     = field{KeyInvestor, AliasInvestor}
	attributesField   = field{KeyAttributes, AliasAttributes}
	priceHistoryField = field{KeyPriceHistory, AliasPriceHistory}
)

var canonicalKeys = []string{
	KeyName, KeyURL, KeyProvince, KeyDistrict, KeyCategory, KeyArea, KeyUnits,
	KeyTowers, KeyInvestor, KeyAttributes, KeyPriceHistory, KeyLatitude, KeyLongitude,
}
