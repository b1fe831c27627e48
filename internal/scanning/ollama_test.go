package scanning

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Ollama", func() {
	var (
		server  *ghttp.Server
		scanner *Ollama
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		var err error
		scanner, err = NewOllama(server.URL(), "llava")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("ExtractReceipt", func() {
		When("the model replies with fenced JSON", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.CombineHandlers(
					ghttp.VerifyRequest("POST", "/api/chat"),
					ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
						Message: ollamaMessage{
							Role:    "assistant",
							Content: "```json\n{\"local\":\"Padaria Sol\",\"data\":\"05/03/2024\",\"valor\":23.5,\"horario\":\"08:15\"}\n```",
						},
						Done: true,
					}),
				))
			})

			It("extracts the fields", func() {
				result, err := scanner.ExtractReceipt(tinyPNG(), "image/png")
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Location).To(Equal("Padaria Sol"))
				Expect(result.AmountCents).To(Equal(2350))
			})
		})

		When("the model reply is missing a key", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
					Message: ollamaMessage{Role: "assistant", Content: `{"local":"X","data":"01/01/2024","horario":"10:00"}`},
					Done:    true,
				}))
			})

			It("returns the error", func() {
				_, err := scanner.ExtractReceipt(tinyPNG(), "image/png")
				Expect(err).To(HaveOccurred())
			})
		})

		When("the API returns an error status", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, "model not loaded"))
			})

			It("returns the error", func() {
				_, err := scanner.ExtractReceipt(tinyPNG(), "image/png")
				Expect(err).To(MatchError(ContainSubstring("status 500")))
			})
		})
	})
})
