package template

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func electricMapping() Mapping {
	billDate := Coordinate(0, 160, 72)
	billDate.Value = "Nov 3, 2025"
	return Mapping{
		"bill_date":  billDate,
		"usage_kwh":  Coordinate(0, 160, 120),
		"total_cost": AnchorBinding("Amount Due", `\$\s*([\d,]+\.?\d*)`),
	}
}

var _ = Describe("BoltStore", func() {
	var store *BoltStore

	BeforeEach(func() {
		var err error
		store, err = NewBoltStore(filepath.Join(GinkgoT().TempDir(), "templates.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if store != nil {
			store.Close()
		}
	})

	Describe("Save and Load", func() {
		It("should round-trip a mapping unchanged", func() {
			saved := electricMapping()
			Expect(store.Save("electric", saved)).To(Succeed())

			loaded, err := store.Load("electric")
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(saved))
		})

		It("should replace the whole mapping on save", func() {
			Expect(store.Save("electric", electricMapping())).To(Succeed())

			replacement := Mapping{"total_cost": Coordinate(0, 160, 170)}
			Expect(store.Save("electric", replacement)).To(Succeed())

			loaded, err := store.Load("electric")
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(HaveLen(1))
			Expect(loaded).To(HaveKey("total_cost"))
		})

		It("should keep document types independent", func() {
			Expect(store.Save("electric", electricMapping())).To(Succeed())
			Expect(store.Save("gas", Mapping{"usage_ccf": Coordinate(0, 200, 300)})).To(Succeed())

			electric, err := store.Load("electric")
			Expect(err).NotTo(HaveOccurred())
			Expect(electric).To(HaveLen(3))

			gas, err := store.Load("gas")
			Expect(err).NotTo(HaveOccurred())
			Expect(gas).To(HaveKey("usage_ccf"))
		})

		It("should reject non-mappable fields", func() {
			err := store.Save("water", Mapping{"service_charge": Coordinate(0, 100, 100)})
			Expect(err).To(MatchError(ContainSubstring("not mappable")))

			loaded, loadErr := store.Load("water")
			Expect(loadErr).NotTo(HaveOccurred())
			Expect(loaded).To(BeNil())
		})

		It("should reject unknown fields", func() {
			err := store.Save("electric", Mapping{"mystery": Coordinate(0, 1, 1)})
			Expect(err).To(MatchError(ContainSubstring("unknown field")))
		})
	})

	Describe("Load", func() {
		It("should return nil when no template was saved", func() {
			loaded, err := store.Load("electric")
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(BeNil())
		})
	})

	Describe("Delete", func() {
		It("should remove the template", func() {
			Expect(store.Save("electric", electricMapping())).To(Succeed())
			Expect(store.Delete("electric")).To(Succeed())

			loaded, err := store.Load("electric")
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(BeNil())
		})

		It("should be a no-op for a missing template", func() {
			Expect(store.Delete("gas")).To(Succeed())
		})
	})
})
