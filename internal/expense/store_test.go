package expense

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltStore", func() {
	var (
		store *BoltStore
	)

	BeforeEach(func() {
		dbPath := filepath.Join(GinkgoT().TempDir(), "test.db")
		var err error
		store, err = NewBoltStore(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if store != nil {
			store.Close()
		}
	})

	Describe("SaveSession and GetSession", func() {
		It("round-trips a session with ledger and profile", func() {
			session := &Session{
				ID:      "sess-1",
				Profile: &PayeeProfile{FullName: "Maria Souza", Method: PixCPF, Detail: "123.456.789-00"},
				Ledger: Ledger{Records: []ExpenseRecord{
					{ID: "r1", Category: Almoco, Location: "Padaria Sol", Date: "05/03/2024", Time: "08:15", AmountCents: 2350, Image: []byte{1, 2, 3}},
				}},
				CreatedAt: time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC),
				UpdatedAt: time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC),
			}
			Expect(store.SaveSession(session)).To(Succeed())

			loaded, err := store.GetSession("sess-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Profile.FullName).To(Equal("Maria Souza"))
			Expect(loaded.Ledger.Count()).To(Equal(1))
			Expect(loaded.Ledger.List()[0].Image).To(Equal([]byte{1, 2, 3}))
		})

		It("returns ErrSessionNotFound for unknown IDs", func() {
			_, err := store.GetSession("missing")
			Expect(err).To(MatchError(ErrSessionNotFound))
		})
	})

	Describe("DeleteSession", func() {
		It("destroys the session", func() {
			Expect(store.SaveSession(&Session{ID: "sess-1"})).To(Succeed())
			Expect(store.DeleteSession("sess-1")).To(Succeed())
			_, err := store.GetSession("sess-1")
			Expect(err).To(MatchError(ErrSessionNotFound))
		})
	})
})

var _ = Describe("MemoryStore", func() {
	var store *MemoryStore

	BeforeEach(func() {
		store = NewMemoryStore()
	})

	It("round-trips a session", func() {
		Expect(store.SaveSession(&Session{ID: "sess-1"})).To(Succeed())
		loaded, err := store.GetSession("sess-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.ID).To(Equal("sess-1"))
	})

	It("returns ErrSessionNotFound for unknown IDs", func() {
		_, err := store.GetSession("missing")
		Expect(err).To(MatchError(ErrSessionNotFound))
	})

	It("stores a copy, not the live session", func() {
		session := &Session{ID: "sess-1"}
		Expect(store.SaveSession(session)).To(Succeed())
		session.ReportGenerated = true
		loaded, err := store.GetSession("sess-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.ReportGenerated).To(BeFalse())
	})
})

var _ = Describe("LocalArchive", func() {
	var archive *LocalArchive

	BeforeEach(func() {
		var err error
		archive, err = NewLocalArchive(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
	})

	It("round-trips a report", func() {
		name, err := archive.Save("reembolso-1.pdf", []byte("%PDF-1.4"))
		Expect(err).NotTo(HaveOccurred())
		Expect(name).To(Equal("reembolso-1.pdf"))

		data, err := archive.Get("reembolso-1.pdf")
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte("%PDF-1.4")))
	})

	It("strips directories from requested names", func() {
		_, err := archive.Save("reembolso-1.pdf", []byte("%PDF-1.4"))
		Expect(err).NotTo(HaveOccurred())
		data, err := archive.Get("../reembolso-1.pdf")
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte("%PDF-1.4")))
	})

	It("lists only PDF files in lexical order", func() {
		_, err := archive.Save("b.pdf", []byte("b"))
		Expect(err).NotTo(HaveOccurred())
		_, err = archive.Save("a.pdf", []byte("a"))
		Expect(err).NotTo(HaveOccurred())
		_, err = archive.Save("notes.txt", []byte("x"))
		Expect(err).NotTo(HaveOccurred())

		names, err := archive.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(names).To(Equal([]string{"a.pdf", "b.pdf"}))
	})
})
