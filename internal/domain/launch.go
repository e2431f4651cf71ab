package domain

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Default trade parameters applied when the caller does not override them.
const (
	DefaultSlippageBps    = 500
	DefaultPriorityFeeSOL = 0.00005
	DefaultPool           = "pump"

	maxRequestSymbolLen      = 10
	maxRequestDescriptionLen = 1000
)

// TokenMetadata is the metadata document uploaded to content-addressed
// storage before a launch. ImageURI points at a previously uploaded image.
type TokenMetadata struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	ImageURI    string `json:"image,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
	Telegram    string `json:"telegram,omitempty"`
	Website     string `json:"website,omitempty"`
	ShowName    bool   `json:"showName"`
}

// LaunchRequest describes a token creation on the bonding-curve protocol.
type LaunchRequest struct {
	Name        string `json:"name" validate:"required"`
	Symbol      string `json:"symbol" validate:"required,max=10"`
	Description string `json:"description" validate:"required,max=1000"`

	// ImageData is uploaded before transaction construction when set.
	// ImageURI/MetadataURI may be provided directly for pre-uploaded assets.
	ImageData   []byte `json:"-"`
	ImageURI    string `json:"imageUrl,omitempty"`
	MetadataURI string `json:"metadataUri,omitempty"`

	Twitter  string `json:"twitter,omitempty"`
	Telegram string `json:"telegram,omitempty"`
	Website  string `json:"website,omitempty"`

	InitialBuySOL  float64 `json:"initialBuy,omitempty" validate:"gte=0"`
	SlippageBps    int     `json:"slippageBps,omitempty" validate:"gte=0,lte=10000"`
	PriorityFeeSOL float64 `json:"priorityFee,omitempty" validate:"gte=0"`
	Pool           string  `json:"pool,omitempty"`

	// SourceMentionID links monitor-driven launches back to the mention.
	SourceMentionID string `json:"-"`
}

var requestValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the request before any network call is made.
// A failing request never reaches upload or transaction construction.
func (r *LaunchRequest) Validate() error {
	if err := requestValidator.Struct(r); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			fe := errs[0]
			return &ValidationError{
				Field:  fe.Field(),
				Reason: validationReason(fe),
			}
		}
		return &ValidationError{Field: "request", Reason: err.Error()}
	}
	return nil
}

func validationReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s constraint", fe.Tag())
	}
}

// Normalize fills in default trade parameters.
func (r *LaunchRequest) Normalize() {
	if r.SlippageBps == 0 {
		r.SlippageBps = DefaultSlippageBps
	}
	if r.PriorityFeeSOL == 0 {
		r.PriorityFeeSOL = DefaultPriorityFeeSOL
	}
	if r.Pool == "" {
		r.Pool = DefaultPool
	}
}

// Metadata builds the content-addressed metadata document for the request.
func (r *LaunchRequest) Metadata() TokenMetadata {
	return TokenMetadata{
		Name:        r.Name,
		Symbol:      r.Symbol,
		Description: r.Description,
		ImageURI:    r.ImageURI,
		Twitter:     r.Twitter,
		Telegram:    r.Telegram,
		Website:     r.Website,
		ShowName:    true,
	}
}

// LaunchResult is produced only after a successful broadcast.
type LaunchResult struct {
	Signature              string `json:"signature"`
	Mint                   string `json:"mint"`
	BondingCurve           string `json:"bondingCurve"`
	AssociatedBondingCurve string `json:"associatedBondingCurve"`
}

// LaunchRecord is the persisted form of a completed launch.
// Corresponds to the launches table in PostgreSQL.
type LaunchRecord struct {
	Signature              string
	Mint                   string
	BondingCurve           string
	AssociatedBondingCurve string
	Name                   string
	Symbol                 string
	MetadataURI            string
	SourceMentionID        *string // nil for manual launches
	LaunchedAt             time.Time
	CreatedAt              time.Time
}
