package domain

// QuotationItemRequest is one requested line when building a quotation
// directly (without going through the cart). UnitPrice is optional; when
// omitted the price manager resolves it.
type QuotationItemRequest struct {
	ProductID string   `json:"productId"`
	Name      string   `json:"name" validate:"required,max=200"`
	Category  string   `json:"category" validate:"max=100"`
	Quantity  int      `json:"quantity" validate:"required,gt=0"`
	UnitPrice *float64 `json:"unitPrice" validate:"omitempty,gte=0"`
}

// InstallationRequest is the optional installation block on a quotation
// request.
type InstallationRequest struct {
	LinearMeters  float64  `json:"linearMeters" validate:"gte=0"`
	PricePerMeter *float64 `json:"pricePerMeter" validate:"omitempty,gte=0"`
}

// CreateQuotationRequest builds and persists a quotation. FromCart takes the
// current cart as the item source; otherwise Items is used.
type CreateQuotationRequest struct {
	FromCart     bool                   `json:"fromCart"`
	Items        []QuotationItemRequest `json:"items" validate:"omitempty,dive"`
	Installation *InstallationRequest   `json:"installation"`
	Project      *ProjectInfo           `json:"project"`
}

// UpdateQuotationStatusRequest changes the stored status of a quotation.
type UpdateQuotationStatusRequest struct {
	Status QuotationStatus `json:"status" validate:"required"`
}

// CreateOrderRequest converts a quotation (or a direct item list) plus
// customer data into an order. Customer field requirements are configured,
// so the map is validated by the domain, not by struct tags.
type CreateOrderRequest struct {
	QuotationID *string           `json:"quotationId"`
	Customer    map[string]string `json:"customer" validate:"required"`
}

// UpdateOrderStatusRequest moves an order to a new status with an optional
// note for the audit trail.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required"`
	Note   string      `json:"note" validate:"max=500"`
}

// AddCartItemRequest adds a product to the cart. UnitPrice is optional and
// resolved by the price manager when omitted.
type AddCartItemRequest struct {
	ProductID string   `json:"productId" validate:"required"`
	Quantity  int      `json:"quantity" validate:"required,gt=0"`
	UnitPrice *float64 `json:"unitPrice" validate:"omitempty,gte=0"`
}

// UpdateCartItemRequest changes the quantity of an existing cart line.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// AdminLoginRequest exchanges the admin API key for a bearer token.
type AdminLoginRequest struct {
	APIKey string `json:"apiKey" validate:"required"`
}

// AdminLoginResponse carries the issued bearer token.
type AdminLoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

// WhatsAppMessageResponse carries a rendered message and the dispatch URL.
// Building the message ends this system's responsibility; the caller opens
// the URL.
type WhatsAppMessageResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// BusinessSettings is the admin-tunable business configuration. A partial
// JSON record stored under the config key is merged over compiled-in
// defaults at load time; zero values mean "keep the default".
type BusinessSettings struct {
	QuotationValidityDays     int     `json:"quotationValidityDays,omitempty" validate:"omitempty,gt=0"`
	InstallationPricePerMeter float64 `json:"installationPricePerMeter,omitempty" validate:"omitempty,gte=0"`
	PostSpacingMeters         float64 `json:"postSpacingMeters,omitempty" validate:"omitempty,gt=0"`
	MarginPercent             float64 `json:"marginPercent,omitempty" validate:"omitempty,gte=0,lte=100"`
}
