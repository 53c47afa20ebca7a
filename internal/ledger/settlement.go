package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
)

// SettlementParams describes a payment between two members of a group.
type SettlementParams struct {
	Group      *models.Group
	PayerID    string
	ReceiverID string
	Amount     float64
	Note       string
	ActorID    string
}

// NewSettlement validates p and builds the settlement.
func NewSettlement(p SettlementParams) (*models.Settlement, error) {
	if p.Group == nil {
		return nil, ErrGroupNotFound
	}
	if p.PayerID == "" || p.ReceiverID == "" {
		return nil, fmt.Errorf("%w: payer and receiver are required", ErrInvalidData)
	}
	if p.PayerID == p.ReceiverID {
		return nil, fmt.Errorf("%w: payer and receiver cannot be the same", ErrInvalidData)
	}
	if err := validateAmount("amount", p.Amount); err != nil {
		return nil, err
	}
	if !p.Group.HasMember(p.PayerID) || !p.Group.HasMember(p.ReceiverID) {
		return nil, fmt.Errorf("%w: payer and receiver must both be group members", ErrInvalidData)
	}

	return &models.Settlement{
		ID:         uuid.New().String(),
		GroupID:    p.Group.ID,
		PayerID:    p.PayerID,
		ReceiverID: p.ReceiverID,
		Amount:     p.Amount,
		CreatedAt:  time.Now().Unix(),
		CreatedBy:  p.ActorID,
		Note:       strings.TrimSpace(p.Note),
	}, nil
}
