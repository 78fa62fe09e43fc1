package handler

import "github.com/c2developers/creatorhub/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Wallet ---

type switchNetworkRequest struct {
	ChainID int64 `json:"chain_id" validate:"required,gt=0"`
}

type switchNetworkResponse struct {
	Network domain.Network `json:"network"`
}

type signMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

type signMessageResponse struct {
	Signature string `json:"signature"`
}

type estimateGasRequest struct {
	To     string `json:"to"     validate:"required,eth_addr"`
	Amount string `json:"amount" validate:"required,numeric"`
}

type estimateGasResponse struct {
	Gas string `json:"gas"`
}

type bindProviderRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type bindingsResponse struct {
	Bindings []string `json:"bindings"`
}

// --- Auth ---

type loginRequest struct {
	Email         string `json:"email"         validate:"required_without=WalletAddress,omitempty,email"`
	WalletAddress string `json:"walletAddress" validate:"required_without=Email,omitempty,eth_addr"`
	Password      string `json:"password"      validate:"required"`
	RememberMe    bool   `json:"rememberMe"`
}

func (r loginRequest) credentials() domain.Credentials {
	return domain.Credentials{
		Email:         r.Email,
		WalletAddress: r.WalletAddress,
		Password:      r.Password,
		RememberMe:    r.RememberMe,
	}
}

type registerRequest struct {
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	WalletAddress   string `json:"walletAddress"   validate:"omitempty,eth_addr"`
	CreatorType     string `json:"creatorType"     validate:"omitempty,max=32"`
	AcceptTerms     bool   `json:"acceptTerms"     validate:"required"`
}

func (r registerRequest) registration() domain.Registration {
	return domain.Registration{
		Email:           r.Email,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
		WalletAddress:   r.WalletAddress,
		CreatorType:     r.CreatorType,
		TermsAccepted:   r.AcceptTerms,
	}
}

type updateUserRequest struct {
	Email         *string `json:"email"         validate:"omitempty,email"`
	WalletAddress *string `json:"walletAddress" validate:"omitempty,eth_addr"`
	Username      *string `json:"username"      validate:"omitempty,max=64"`
	Avatar        *string `json:"avatar"        validate:"omitempty,url"`
	Role          *string `json:"role"          validate:"omitempty,oneof=admin creator user"`
	Status        *string `json:"status"        validate:"omitempty,oneof=active pending suspended"`
}

func (r updateUserRequest) patch() domain.UserPatch {
	p := domain.UserPatch{
		Email:         r.Email,
		WalletAddress: r.WalletAddress,
		Username:      r.Username,
		Avatar:        r.Avatar,
		Role:          r.Role,
	}
	if r.Status != nil {
		st := domain.UserStatus(*r.Status)
		p.Status = &st
	}
	return p
}

// --- Preferences ---

type preferencesRequest struct {
	Theme  string `json:"theme"  validate:"omitempty,oneof=dark light"`
	Locale string `json:"locale" validate:"omitempty,oneof=es en"`
}

// --- Payments ---

type createPaymentRequest struct {
	Type      string `json:"type"      validate:"required,oneof=donation project_purchase"`
	Amount    string `json:"amount"    validate:"required,numeric"`
	ToUserID  string `json:"toUserId"  validate:"required_if=Type donation"`
	ProjectID string `json:"projectId" validate:"required_if=Type project_purchase"`
	// Settle sends the transaction through the connected wallet and marks the
	// payment completed once it is mined.
	Settle bool `json:"settle"`
}

func (r createPaymentRequest) paymentRequest() domain.PaymentRequest {
	return domain.PaymentRequest{
		Type:      domain.PaymentType(r.Type),
		Amount:    r.Amount,
		ToUserID:  r.ToUserID,
		ProjectID: r.ProjectID,
	}
}

type updatePaymentRequest struct {
	TransactionHash string `json:"transactionHash" validate:"required,hexadecimal,len=66"`
}

type paymentHistoryResponse struct {
	Payments []domain.Payment `json:"payments"`
}

type balanceResponse struct {
	Balance string `json:"balance"`
}

type viewsResponse struct {
	Views []domain.DashboardView `json:"views"`
}
