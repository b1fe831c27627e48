package expense

import (
	"fmt"
	"strings"
	"time"
)

// PaymentMethod is how the payee wants to be reimbursed
type PaymentMethod string

const (
	PixCPF            PaymentMethod = "PIX (Chave CPF)"
	PixCelular        PaymentMethod = "PIX (Chave Celular)"
	ContaCorrente     PaymentMethod = "Conta Corrente"
	CartaoCorporativo PaymentMethod = "Cartão Corporativo"
	Pix               PaymentMethod = "PIX"
	Outro             PaymentMethod = "Outro"
)

// PaymentMethods lists the accepted methods in display order
var PaymentMethods = []PaymentMethod{
	PixCPF, PixCelular, ContaCorrente, CartaoCorporativo, Pix, Outro,
}

// Valid reports whether m is one of the accepted methods
func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// Category is the expense category shown in the report
type Category string

const (
	CafeDaManha    Category = "Café da manhã"
	Almoco         Category = "Almoço"
	CafeDaTarde    Category = "Café da tarde"
	Jantar         Category = "Jantar"
	Extras         Category = "Extras"
	Estacionamento Category = "Estacionamento"
	Pedagio        Category = "Pedágio"
)

// Categories lists the accepted categories in display order
var Categories = []Category{
	CafeDaManha, Almoco, CafeDaTarde, Jantar, Extras, Estacionamento, Pedagio,
}

// Valid reports whether c is one of the accepted categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// PayeeProfile identifies the reimbursement recipient and how to pay them.
// It is collected once per session and locked once a report is generated.
type PayeeProfile struct {
	FullName string        `json:"full_name"`
	Method   PaymentMethod `json:"payment_method"`
	Detail   string        `json:"payment_detail"`
}

// Validate checks the profile before it is accepted into a session
func (p PayeeProfile) Validate() error {
	if strings.TrimSpace(p.FullName) == "" {
		return fmt.Errorf("%w: nome completo é obrigatório", ErrInvalidProfile)
	}
	if !p.Method.Valid() {
		return fmt.Errorf("%w: forma de recebimento %q desconhecida", ErrInvalidProfile, p.Method)
	}
	return nil
}

// ExpenseRecord is one confirmed expense backed by a receipt photo. The Image
// is always PNG (uploads are normalized before a record is created) and is
// owned exclusively by the record. Date and Time are the strings shown on the
// receipt, not validated calendar values.
type ExpenseRecord struct {
	ID          string    `json:"id"`
	Category    Category  `json:"category"`
	Location    string    `json:"location"`
	Date        string    `json:"date"` // DD/MM/YYYY
	Time        string    `json:"time"` // HH:MM
	AmountCents int       `json:"amount_cents"`
	Image       []byte    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Amount returns the amount in reais
func (r ExpenseRecord) Amount() float64 {
	return float64(r.AmountCents) / 100
}
