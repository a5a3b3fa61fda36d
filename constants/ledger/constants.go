package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxBuyInAmount is the ceiling for a single buy-in request.
var MaxBuyInAmount = decimal.NewFromInt(100000)

// Texts stored when an admin rejects without giving a reason.
const (
	DefaultRejectionReason = "No reason provided"
	DefaultCashOutNote     = "Rejected by admin"
)

// BcryptCost is the work factor used when hashing account passwords.
const BcryptCost = 10

// TokenTTL is how long an issued bearer token stays valid.
const TokenTTL = 24 * time.Hour

// ReportCacheTTL bounds how stale a cached player summary may be.
const ReportCacheTTL = 60 * time.Second
