package main_test

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("OpenAPI document", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
	})

	It("validates against the OpenAPI 3 schema", func() {
		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	It("documents every mounted route", func() {
		for _, path := range []string{
			"/auth/login",
			"/auth/refresh",
			"/auth/register",
			"/users/me",
			"/companies",
			"/companies/{id}",
			"/companies/{id}/accept",
			"/companies/{id}/decline",
			"/companies/{id}/employees",
			"/companies/{id}/shifts",
			"/companies/{id}/shifts/toggle",
			"/shifts/badge/{uid}/toggle",
			"/shifts",
			"/employees",
			"/employees/{id}",
			"/health",
			"/ping",
		} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), "missing path %s", path)
		}
	})
})
