package validation_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internal "github.com/frahmantamala/shift-tracking/internal"
	"github.com/frahmantamala/shift-tracking/internal/core/common/validation"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

var _ = Describe("ValidatePhoneNumber", func() {
	It("should accept a 13-character number with a leading plus", func() {
		Expect(validation.ValidatePhoneNumber("+628110000003")).To(BeNil())
	})

	It("should accept a bare digit number", func() {
		Expect(validation.ValidatePhoneNumber("628110000003")).To(BeNil())
	})

	It("should reject a number longer than the phone column", func() {
		err := validation.ValidatePhoneNumber("+6281100000003")
		Expect(err).NotTo(BeNil())
		Expect(err.Type).To(Equal(internal.ErrorTypeValidation))
	})

	It("should reject a number that is too short", func() {
		err := validation.ValidatePhoneNumber("+62811")
		Expect(err).NotTo(BeNil())
	})

	It("should reject non-digit characters", func() {
		err := validation.ValidatePhoneNumber("+62811x00003")
		Expect(err).NotTo(BeNil())
	})

	It("should reject an empty value", func() {
		err := validation.ValidatePhoneNumber("")
		Expect(err).NotTo(BeNil())
	})
})

var _ = Describe("ValidateEmail", func() {
	It("should accept a plain address", func() {
		Expect(validation.ValidateEmail("worker@mail.com")).To(BeNil())
	})

	It("should reject an address without a domain", func() {
		err := validation.ValidateEmail("worker@")
		Expect(err).NotTo(BeNil())
		Expect(err.Type).To(Equal(internal.ErrorTypeValidation))
	})
})
