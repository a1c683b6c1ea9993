package wire

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
)

// Common MTIs.
const (
	MTIAuthorizationRequest  = "0100"
	MTIAuthorizationResponse = "0110"
	MTIFinancialRequest      = "0200"
	MTIFinancialResponse     = "0210"
	MTISettlementRequest     = "0500"
	MTISettlementResponse    = "0510"
	MTINetworkRequest        = "0800"
	MTINetworkResponse       = "0810"
)

// Field numbers used by the builders.
const (
	FieldCardReference    = 2
	FieldProcessingCode   = 3
	FieldAmount           = 4
	FieldTransmissionTime = 7
	FieldTraceNumber      = 11
	FieldProcessedTime    = 12
	FieldAcquirerID       = 32
	FieldIssuerID         = 33
	FieldReference        = 37
	FieldResponseCode     = 39
	FieldMerchantID       = 42
	FieldFailureReason    = 44
	FieldStatus           = 48
	FieldCurrency         = 49
	FieldMembers          = 62
)

const (
	ResponseApproved = "00"
	ResponseDeclined = "05"

	timeLayout = "20060102150405"
)

var processingCodes = map[domain.TransactionType]string{
	domain.TransactionTypePurchase:   "000000",
	domain.TransactionTypeRefund:     "200000",
	domain.TransactionTypeChargeback: "220000",
}

func AuthorizationRequest(tx domain.Transaction) *Message {
	return transactionMessage(MTIAuthorizationRequest, tx, false)
}

func AuthorizationResponse(tx domain.Transaction) *Message {
	return transactionMessage(MTIAuthorizationResponse, tx, true)
}

func FinancialRequest(tx domain.Transaction) *Message {
	return transactionMessage(MTIFinancialRequest, tx, false)
}

func FinancialResponse(tx domain.Transaction) *Message {
	return transactionMessage(MTIFinancialResponse, tx, true)
}

// ForTransaction picks the message matching the transaction's stage:
// authorization responses before capture, financial responses after.
func ForTransaction(tx domain.Transaction) *Message {
	switch tx.Status {
	case domain.TransactionStatusPending, domain.TransactionStatusAuthorized, domain.TransactionStatusDeclined:
		return AuthorizationResponse(tx)
	default:
		return FinancialResponse(tx)
	}
}

func SettlementRequest(batch domain.SettlementBatch) *Message {
	return settlementMessage(MTISettlementRequest, batch, false)
}

func SettlementResponse(batch domain.SettlementBatch) *Message {
	return settlementMessage(MTISettlementResponse, batch, true)
}

// Heartbeat builds the 0800 network request peers answer with EchoResponse.
func Heartbeat(trace string, now time.Time) *Message {
	m := NewMessage(MTINetworkRequest)
	m.put(FieldTransmissionTime, now.UTC().Format(timeLayout))
	m.put(FieldTraceNumber, trace)
	return m
}

// EchoResponse answers a network message with 0810, echoing the trace number.
func EchoResponse(req *Message, now time.Time) *Message {
	m := NewMessage(MTINetworkResponse)
	m.put(FieldTransmissionTime, now.UTC().Format(timeLayout))
	if trace, ok := req.Field(FieldTraceNumber); ok {
		m.put(FieldTraceNumber, trace)
	}
	m.put(FieldResponseCode, ResponseApproved)
	return m
}

func transactionMessage(mti string, tx domain.Transaction, response bool) *Message {
	m := NewMessage(mti)
	m.put(FieldCardReference, tx.CardID.String())
	m.put(FieldProcessingCode, processingCodes[tx.Type])
	m.put(FieldAmount, tx.Amount.String())
	m.put(FieldTransmissionTime, tx.CreatedAt.UTC().Format(timeLayout))
	if tx.ProcessedAt != nil {
		m.put(FieldProcessedTime, tx.ProcessedAt.UTC().Format(timeLayout))
	}
	m.put(FieldReference, tx.ID.String())
	if response {
		code := ResponseApproved
		if tx.Status == domain.TransactionStatusDeclined {
			code = ResponseDeclined
		}
		m.put(FieldResponseCode, code)
	}
	m.put(FieldMerchantID, tx.MerchantID.String())
	m.put(FieldStatus, string(tx.Status))
	m.put(FieldCurrency, tx.Currency)
	return m
}

func settlementMessage(mti string, batch domain.SettlementBatch, response bool) *Message {
	ids := make([]string, len(batch.TransactionIDs))
	for i, id := range batch.TransactionIDs {
		ids[i] = id.String()
	}

	m := NewMessage(mti)
	m.put(FieldAmount, batch.TotalAmount.String())
	m.put(FieldTransmissionTime, batch.CreatedAt.UTC().Format(timeLayout))
	if batch.SettledAt != nil {
		m.put(FieldProcessedTime, batch.SettledAt.UTC().Format(timeLayout))
	}
	m.put(FieldAcquirerID, batch.AcquirerID.String())
	m.put(FieldIssuerID, batch.IssuerID.String())
	m.put(FieldReference, batch.ID.String())
	if response {
		code := ResponseApproved
		if batch.Status == domain.SettlementStatusFailed {
			code = ResponseDeclined
		}
		m.put(FieldResponseCode, code)
	}
	if batch.FailureReason != "" {
		m.put(FieldFailureReason, batch.FailureReason)
	}
	m.put(FieldStatus, string(batch.Status))
	m.put(FieldCurrency, batch.Currency)
	m.put(FieldMembers, strings.Join(ids, ","))
	return m
}

// put is SetField for field numbers known to be in range.
func (m *Message) put(n int, value string) {
	_ = m.SetField(n, value)
}

// ParseTransaction reads back a message built by one of the transaction
// builders.
func ParseTransaction(m *Message) (domain.Transaction, error) {
	switch m.MTI {
	case MTIAuthorizationRequest, MTIAuthorizationResponse, MTIFinancialRequest, MTIFinancialResponse:
	default:
		return domain.Transaction{}, fmt.Errorf("%w: %s", domain.ErrUnexpectedMTI, m.MTI)
	}

	p := parser{m: m}
	tx := domain.Transaction{
		ID:         p.uuidField(FieldReference),
		CardID:     p.uuidField(FieldCardReference),
		MerchantID: p.uuidField(FieldMerchantID),
		Amount:     p.decimalField(FieldAmount),
		Currency:   p.required(FieldCurrency),
		Type:       p.transactionType(),
		Status:     domain.TransactionStatus(p.required(FieldStatus)),
		CreatedAt:  p.timeField(FieldTransmissionTime),
	}
	tx.ProcessedAt = p.optionalTime(FieldProcessedTime)

	if p.err != nil {
		return domain.Transaction{}, p.err
	}
	return tx, nil
}

// ParseSettlementBatch reads back a message built by SettlementRequest or
// SettlementResponse.
func ParseSettlementBatch(m *Message) (domain.SettlementBatch, error) {
	switch m.MTI {
	case MTISettlementRequest, MTISettlementResponse:
	default:
		return domain.SettlementBatch{}, fmt.Errorf("%w: %s", domain.ErrUnexpectedMTI, m.MTI)
	}

	p := parser{m: m}
	batch := domain.SettlementBatch{
		ID:          p.uuidField(FieldReference),
		IssuerID:    p.uuidField(FieldIssuerID),
		AcquirerID:  p.uuidField(FieldAcquirerID),
		TotalAmount: p.decimalField(FieldAmount),
		Currency:    p.required(FieldCurrency),
		Status:      domain.SettlementStatus(p.required(FieldStatus)),
		CreatedAt:   p.timeField(FieldTransmissionTime),
	}
	batch.SettledAt = p.optionalTime(FieldProcessedTime)
	batch.FailureReason, _ = m.Field(FieldFailureReason)

	if members := p.required(FieldMembers); members != "" {
		for _, raw := range strings.Split(members, ",") {
			id, err := uuid.Parse(raw)
			if err != nil {
				p.fail(fmt.Errorf("%w: member %q", domain.ErrInvalidEncoding, raw))
				break
			}
			batch.TransactionIDs = append(batch.TransactionIDs, id)
		}
	}

	if p.err != nil {
		return domain.SettlementBatch{}, p.err
	}
	return batch, nil
}

// parser keeps the first error so field reads can be chained.
type parser struct {
	m   *Message
	err error
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *parser) required(n int) string {
	v, ok := p.m.Field(n)
	if !ok {
		p.fail(fmt.Errorf("%w: %d", domain.ErrMissingField, n))
	}
	return v
}

func (p *parser) uuidField(n int) uuid.UUID {
	raw := p.required(n)
	id, err := uuid.Parse(raw)
	if err != nil && p.err == nil {
		p.fail(fmt.Errorf("%w: field %d: %v", domain.ErrInvalidEncoding, n, err))
	}
	return id
}

func (p *parser) decimalField(n int) decimal.Decimal {
	raw := p.required(n)
	d, err := decimal.NewFromString(raw)
	if err != nil && p.err == nil {
		p.fail(fmt.Errorf("%w: field %d: %v", domain.ErrInvalidEncoding, n, err))
	}
	return d
}

func (p *parser) timeField(n int) time.Time {
	raw := p.required(n)
	t, err := time.Parse(timeLayout, raw)
	if err != nil && p.err == nil {
		p.fail(fmt.Errorf("%w: field %d: %v", domain.ErrInvalidEncoding, n, err))
	}
	return t
}

func (p *parser) optionalTime(n int) *time.Time {
	if _, ok := p.m.Field(n); !ok {
		return nil
	}
	t := p.timeField(n)
	return &t
}

func (p *parser) transactionType() domain.TransactionType {
	code := p.required(FieldProcessingCode)
	for typ, c := range processingCodes {
		if c == code {
			return typ
		}
	}
	if p.err == nil {
		p.fail(fmt.Errorf("%w: processing code %q", domain.ErrInvalidEncoding, code))
	}
	return ""
}
