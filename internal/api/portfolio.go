package api

import (
	"context"
	"fmt"
	"net/http"
)

// PortfolioEntry summarizes one user's holdings at the requested live price.
type PortfolioEntry struct {
	UserID        FlexInt   `json:"user_id"`
	Name          string    `json:"name,omitempty"`
	Email         string    `json:"email,omitempty"`
	TotalQuantity FlexFloat `json:"total_quantity"`
	TotalInvested FlexFloat `json:"total_invested"`
	CurrentValue  FlexFloat `json:"current_value"`
	ProfitLoss    FlexFloat `json:"profit_loss"`
}

// PortfolioSummary is the portfolio envelope variant.
type PortfolioSummary struct {
	Detail     Detail           `json:"detail,omitzero"`
	TotalUsers FlexInt          `json:"total_users"`
	Portfolios []PortfolioEntry `json:"portfolios"`
}

type FetchPortfolioPayload struct {
	LivePrice float64 `json:"live_price" validate:"gt=0"`
}

// Path returns the portfolio path, scoped to userID when positive.
func (s PortfolioService) Path(userID int) string {
	if userID > 0 {
		return fmt.Sprintf("%s/%d", s.spec.Collection, userID)
	}
	return s.spec.Collection
}

// Fetch computes portfolios at livePrice for every user, or for userID
// when positive.
func (s PortfolioService) Fetch(ctx context.Context, livePrice float64, userID int) (*PortfolioSummary, error) {
	var out PortfolioSummary
	body := jsonBody(FetchPortfolioPayload{LivePrice: livePrice})
	if err := s.call(ctx, "fetch portfolio", http.MethodPost, s.Path(userID), body, &out); err != nil {
		return nil, err
	}
	if out.Portfolios == nil {
		out.Portfolios = []PortfolioEntry{}
	}
	return &out, nil
}
