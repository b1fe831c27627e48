package scanning

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestScanning(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Scanning Suite")
}

var _ = Describe("stripFences", func() {
	It("strips a json fence", func() {
		Expect(stripFences("```json\n{\"a\":1}\n```")).To(Equal(`{"a":1}`))
	})

	It("strips a bare fence", func() {
		Expect(stripFences("```\n{\"a\":1}\n```")).To(Equal(`{"a":1}`))
	})

	It("leaves unfenced text unchanged", func() {
		Expect(stripFences(`{"a":1}`)).To(Equal(`{"a":1}`))
	})

	It("trims surrounding whitespace", func() {
		Expect(stripFences("  \n{\"a\":1}\n  ")).To(Equal(`{"a":1}`))
	})
})

var _ = Describe("parseExtraction", func() {
	var (
		reply  string
		result *ExtractionResult
		err    error
	)

	JustBeforeEach(func() {
		result, err = parseExtraction(reply)
	})

	When("parsing a fence-wrapped reply with all four keys", func() {
		BeforeEach(func() {
			reply = "```json\n{\"local\":\"Padaria Sol\",\"data\":\"05/03/2024\",\"valor\":23.5,\"horario\":\"08:15\"}\n```"
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should parse the location", func() {
			Expect(result.Location).To(Equal("Padaria Sol"))
		})

		It("should parse the date as-is", func() {
			Expect(result.Date).To(Equal("05/03/2024"))
		})

		It("should convert the amount to centavos exactly", func() {
			Expect(result.AmountCents).To(Equal(2350))
		})

		It("should parse the time", func() {
			Expect(result.Time).To(Equal("08:15"))
		})
	})

	When("parsing a bare reply without fences", func() {
		BeforeEach(func() {
			reply = `{"local":"Estacionamento Central","data":"12/07/2024","valor":18,"horario":"14:02"}`
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should convert a whole-real amount to centavos", func() {
			Expect(result.AmountCents).To(Equal(1800))
		})
	})

	When("the model adds chatter around the object", func() {
		BeforeEach(func() {
			reply = "Aqui estão os dados:\n{\"local\":\"X\",\"data\":\"01/01/2024\",\"valor\":1.1,\"horario\":\"10:00\"}\nEspero ter ajudado!"
		})

		It("should still parse the object", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Location).To(Equal("X"))
		})
	})

	When("a required key is missing", func() {
		BeforeEach(func() {
			reply = `{"local":"X","data":"01/01/2024","horario":"10:00"}`
		})

		It("returns the error", func() {
			Expect(err).To(MatchError(ContainSubstring("valor")))
		})

		It("does not return a result", func() {
			Expect(result).To(BeNil())
		})
	})

	When("valor is not numeric", func() {
		BeforeEach(func() {
			reply = `{"local":"X","data":"01/01/2024","valor":"23,50","horario":"10:00"}`
		})

		It("returns the error", func() {
			Expect(err).To(HaveOccurred())
		})
	})

	When("valor is negative", func() {
		BeforeEach(func() {
			reply = `{"local":"X","data":"01/01/2024","valor":-5.0,"horario":"10:00"}`
		})

		It("returns the error", func() {
			Expect(err).To(MatchError(ContainSubstring("negative")))
		})
	})

	When("the reply is not JSON at all", func() {
		BeforeEach(func() {
			reply = "não consegui ler a imagem"
		})

		It("returns the error", func() {
			Expect(err).To(HaveOccurred())
		})
	})

	When("the reply has a zero amount", func() {
		BeforeEach(func() {
			reply = `{"local":"Pedágio","data":"01/01/2024","valor":0,"horario":"10:00"}`
		})

		It("accepts it", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.AmountCents).To(Equal(0))
		})
	})
})
