package expense

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Ledger", func() {
	var ledger *Ledger

	BeforeEach(func() {
		ledger = &Ledger{}
	})

	Describe("Append and List", func() {
		It("keeps records in insertion order", func() {
			for i := 0; i < 5; i++ {
				ledger.Append(ExpenseRecord{ID: fmt.Sprintf("r%d", i), AmountCents: i * 100})
			}

			records := ledger.List()
			Expect(records).To(HaveLen(5))
			for i, r := range records {
				Expect(r.ID).To(Equal(fmt.Sprintf("r%d", i)))
			}
		})

		It("returns a snapshot that does not alias the ledger", func() {
			ledger.Append(ExpenseRecord{ID: "a"})
			records := ledger.List()
			records[0].ID = "mutated"
			Expect(ledger.List()[0].ID).To(Equal("a"))
		})
	})

	Describe("Count", func() {
		It("matches the number of appends", func() {
			Expect(ledger.Count()).To(Equal(0))
			ledger.Append(ExpenseRecord{ID: "a"})
			ledger.Append(ExpenseRecord{ID: "b"})
			Expect(ledger.Count()).To(Equal(2))
		})
	})

	Describe("TotalCents", func() {
		It("sums all amounts", func() {
			ledger.Append(ExpenseRecord{AmountCents: 2350})
			ledger.Append(ExpenseRecord{AmountCents: 1800})
			Expect(ledger.TotalCents()).To(Equal(4150))
		})
	})

	Describe("Clear", func() {
		It("empties the ledger", func() {
			ledger.Append(ExpenseRecord{ID: "a"})
			ledger.Clear()
			Expect(ledger.Count()).To(Equal(0))
		})
	})
})

var _ = Describe("ExpenseRecord", func() {
	It("converts centavos to reais", func() {
		Expect(ExpenseRecord{AmountCents: 2350}.Amount()).To(Equal(23.50))
	})
})

var _ = Describe("PayeeProfile", func() {
	It("accepts a complete profile", func() {
		p := PayeeProfile{FullName: "Maria Souza", Method: PixCPF, Detail: "123.456.789-00"}
		Expect(p.Validate()).To(Succeed())
	})

	It("rejects a blank name", func() {
		p := PayeeProfile{FullName: "  ", Method: PixCPF}
		Expect(p.Validate()).To(MatchError(ErrInvalidProfile))
	})

	It("rejects an unknown payment method", func() {
		p := PayeeProfile{FullName: "Maria Souza", Method: "Cheque"}
		Expect(p.Validate()).To(MatchError(ErrInvalidProfile))
	})
})
