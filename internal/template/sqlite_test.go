package template

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SQLiteStore", func() {
	var store *SQLiteStore

	BeforeEach(func() {
		var err error
		store, err = NewSQLiteStore(filepath.Join(GinkgoT().TempDir(), "templates.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if store != nil {
			store.Close()
		}
	})

	It("should round-trip a mapping unchanged", func() {
		saved := electricMapping()
		Expect(store.Save("electric", saved)).To(Succeed())

		loaded, err := store.Load("electric")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(Equal(saved))
	})

	It("should replace the whole mapping on save", func() {
		Expect(store.Save("electric", electricMapping())).To(Succeed())
		Expect(store.Save("electric", Mapping{"days": Coordinate(0, 192, 220)})).To(Succeed())

		loaded, err := store.Load("electric")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(HaveLen(1))
		Expect(loaded).To(HaveKey("days"))
	})

	It("should return nil when no template was saved", func() {
		loaded, err := store.Load("water")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeNil())
	})

	It("should delete templates", func() {
		Expect(store.Save("gas", Mapping{"bill_date": Coordinate(0, 160, 72)})).To(Succeed())
		Expect(store.Delete("gas")).To(Succeed())

		loaded, err := store.Load("gas")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeNil())
	})

	It("should reject non-mappable fields", func() {
		err := store.Save("water", Mapping{"water_cost": Coordinate(0, 100, 100)})
		Expect(err).To(MatchError(ContainSubstring("not mappable")))
	})
})
