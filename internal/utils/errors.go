package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken         = errors.New("INVALID_TOKEN")
	ErrPromotionNotFound    = errors.New("PROMOTION_NOT_FOUND")
	ErrProductNotFound      = errors.New("PRODUCT_NOT_FOUND")
	ErrItemNotFound         = errors.New("ITEM_NOT_FOUND")
	ErrPromotionNotEditable = errors.New("PROMOTION_NOT_EDITABLE")
	ErrInvalidDateRange     = errors.New("INVALID_DATE_RANGE")
	ErrInvalidDiscountRule  = errors.New("INVALID_DISCOUNT_RULE")
	ErrInvalidPrice         = errors.New("INVALID_PRICE")
	ErrInvalidProduct       = errors.New("INVALID_PRODUCT")
	ErrInvalidPromotion     = errors.New("INVALID_PROMOTION")
	ErrInvalidSalesLog      = errors.New("INVALID_SALES_LOG")
	ErrRuleNotFound         = errors.New("RULE_NOT_FOUND")
	ErrInvalidRule          = errors.New("INVALID_RULE")
	ErrInvalidCSV           = errors.New("INVALID_CSV")
	ErrExportDisabled       = errors.New("EXPORT_DISABLED")
	ErrInvalidCredentials   = errors.New("INVALID_CREDENTIALS")
	ErrAccountInactive      = errors.New("ACCOUNT_INACTIVE")
)
