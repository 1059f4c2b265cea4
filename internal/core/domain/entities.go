package domain

// SearchHistoryItem - одна запись истории поиска пользователя.
// Timestamp хранится в миллисекундах эпохи, как в исходном Mini App.
type SearchHistoryItem struct {
	ID        string `json:"id"`
	Address   string `json:"address"`
	CountRoom string `json:"countRoom"`
	Timestamp int64  `json:"timestamp"`
}

// Стратегии инвестиционного мандата.
const (
	StrategyRent    = "rent"
	StrategyFlip    = "flip"
	StrategyParking = "parking"
)

// Уровни допустимого риска мандата.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Mandate - инвестиционный профиль поиска, задаваемый пользователем.
type Mandate struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Strategy            string   `json:"strategy"`
	BudgetMin           float64  `json:"budgetMin"`
	BudgetMax           float64  `json:"budgetMax"`
	Cities              []string `json:"cities"`
	Districts           []string `json:"districts"`
	PropertyTypes       []string `json:"propertyTypes"`
	TargetYield         float64  `json:"targetYield"`
	MaxRisk             string   `json:"maxRisk"`
	ExcludeOldBuildings bool     `json:"excludeOldBuildings"`
	CreatedAt           int64    `json:"createdAt"`
}

// MandateSaveResult - типизированный результат сохранения мандата.
// Превышение лимита тарифа - это не ошибка приложения, а отклоненная
// операция, поэтому возвращается результатом, а не error.
type MandateSaveResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Тарифы пользователя. Тариф определяет лимит мандатов.
const (
	TierFree = "free"
	TierPaid = "paid"
)

// SavedDeal - сохраненный инвестиционный вариант.
// Снимок InvestmentOption плюс идентификатор и момент сохранения.
type SavedDeal struct {
	InvestmentOption
	ID      string `json:"id"`
	SavedAt int64  `json:"savedAt"`
}

// Статусы трека сделки.
const (
	DealStatusIdea        = "idea"
	DealStatusNegotiation = "negotiation"
	DealStatusPurchase    = "purchase"
	DealStatusRenovation  = "renovation"
	DealStatusRenting     = "renting"
	DealStatusSold        = "sold"
)

// ValidDealStatuses - допустимые значения статуса трека.
var ValidDealStatuses = map[string]bool{
	DealStatusIdea:        true,
	DealStatusNegotiation: true,
	DealStatusPurchase:    true,
	DealStatusRenovation:  true,
	DealStatusRenting:     true,
	DealStatusSold:        true,
}

// DealTrack - статусная дорожка по сделке. Не более одного трека на dealId.
// Жизненный цикл независим от SavedDeal: трек может ссылаться на сделку,
// которую пользователь уже убрал из сохраненных.
type DealTrack struct {
	DealID    string `json:"dealId"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// InvestAuthState - состояние авторизации инвестора по партнерскому коду.
// Действительно 7 дней с момента сохранения, проверка лениво при чтении.
type InvestAuthState struct {
	Code      string `json:"code"`
	Timestamp int64  `json:"timestamp"`
}

// Темы оформления Mini App. "system" следует теме клиента Telegram.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// ValidThemes - допустимые значения темы.
var ValidThemes = map[string]bool{
	ThemeLight:  true,
	ThemeDark:   true,
	ThemeSystem: true,
}

// UrgentSaleApplication - заявка лид-формы срочной продажи/покупки.
type UrgentSaleApplication struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	City        string `json:"city"`
	ObjectType  string `json:"objectType"`
	Description string `json:"description"`
}
