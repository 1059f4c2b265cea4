package constants

// Ключи пользовательского key-value хранилища.
// Значения совпадают с ключами localStorage оригинального Mini App,
// чтобы миграция данных была прямой.
const (
	StoreKeySearchHistory = "searchHistory"
	StoreKeyMandates      = "investorMandates"
	StoreKeySavedDeals    = "savedDeals"
	StoreKeyDealTracks    = "dealTracks"
	StoreKeyInvestAuth    = "investingAuth"
	StoreKeyTheme         = "uiTheme"
)
