package field

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Registry", func() {
	It("should know the three utility document types", func() {
		Expect(DocumentTypes()).To(Equal([]string{"electric", "gas", "water"}))
	})

	It("should return nil for unknown document types", func() {
		Expect(Definitions("cable")).To(BeNil())
	})

	It("should preserve declared field order for electric", func() {
		var names []string
		for _, def := range Definitions("electric") {
			names = append(names, def.Name)
		}
		Expect(names).To(Equal([]string{
			"bill_date", "usage_kwh", "total_cost", "days",
			"meter_reading", "electric_cost", "taxes",
		}))
	})

	It("should mark the derived water fields non-mappable", func() {
		for _, name := range []string{"water_cost", "service_charge"} {
			def, ok := Lookup("water", name)
			Expect(ok).To(BeTrue())
			Expect(def.Mappable).To(BeFalse())
		}
	})

	It("should mark every other field mappable", func() {
		for _, docType := range DocumentTypes() {
			for _, def := range Definitions(docType) {
				if docType == "water" && (def.Name == "water_cost" || def.Name == "service_charge") {
					continue
				}
				Expect(def.Mappable).To(BeTrue(), "%s/%s", docType, def.Name)
			}
		}
	})

	It("should compile every declared pattern", func() {
		for _, docType := range DocumentTypes() {
			for _, def := range Definitions(docType) {
				Expect(def.compiled).To(HaveLen(len(def.Patterns)), "%s/%s", docType, def.Name)
			}
		}
	})

	It("should not find fields across document types", func() {
		_, ok := Lookup("electric", "usage_ccf")
		Expect(ok).To(BeFalse())
	})
})
