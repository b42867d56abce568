package e2e

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/imamik/searchprov/internal/config"
	"github.com/imamik/searchprov/internal/lifecycle"
	svtest "github.com/imamik/searchprov/internal/testing"
)

const provisioningRequests = `{"requests": [
	{"method": "PUT", "path": "_template/t", "body": {"a": 1}},
	{"method": "POST", "path": "api/kibana/dashboards/import", "body": "{}"}
]}`

const legacyRequests = `{"Requests": [
	{"method": "PUT", "path": "_template/example-index-template", "body": {"index_patterns": ["logs-*"]}},
	{"method": "POST", "path": "_plugin/kibana/api/saved_objects/_import",
	 "securitytenant": "global", "filename": "dashboard.ndjson", "body": "{\"type\":\"dashboard\"}"}
]}`

var _ = Describe("es-requests custom resource", func() {
	var (
		domain *svtest.FakeDomain
		cf     *fakeCloudFormation
		logger logr.Logger
	)

	newHandler := func() *lifecycle.Handler {
		loader := func(context.Context) (*config.Config, error) {
			return svtest.NewConfigBuilder().WithDomainURL(domain.URL).Build(), nil
		}
		return lifecycle.NewHandler(loader, lifecycle.DefaultRunnerFactory,
			lifecycle.WithLogger(logger),
			lifecycle.WithCallbackReporter(lifecycle.NewCallbackReporter(cf.Client(),
				lifecycle.WithCallbackLogger(logger),
				lifecycle.WithRetryDelay(time.Millisecond))))
	}

	invoke := func(raw []byte) error {
		var ev lifecycle.Event
		Expect(json.Unmarshal(raw, &ev)).To(Succeed())
		return newHandler().Handle(context.Background(), ev)
	}

	BeforeEach(func() {
		zl := zap.New(zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(GinkgoWriter),
			zapcore.DebugLevel))
		logger = zapr.NewLogger(zl)
		cf = newFakeCloudFormation()
		DeferCleanup(cf.Close)
	})

	Context("without a ResponseURL", func() {
		It("sends every request in order, signed", func() {
			domain = svtest.NewFakeDomain()
			DeferCleanup(domain.Close)

			Expect(invoke(event("Create", "", provisioningRequests))).To(Succeed())

			got := domain.Received()
			Expect(got).To(HaveLen(2))

			By("sending the structured body as compact JSON")
			Expect(got[0].Method).To(Equal("PUT"))
			Expect(got[0].Path).To(Equal("/_template/t"))
			Expect(got[0].Body).To(Equal(`{"a":1}`))
			Expect(got[0].Header.Get("Content-Type")).To(Equal("application/json"))

			By("rewriting the legacy Kibana path")
			Expect(got[1].Path).To(Equal("/_plugin/kibana/api/kibana/dashboards/import"))
			Expect(got[1].Header.Get("kbn-xsrf")).To(Equal("kibana"))

			for _, r := range got {
				Expect(r.Header.Get("Authorization")).To(HavePrefix("AWS4-HMAC-SHA256 Credential=" + svtest.AccessKeyID + "/"))
				Expect(r.Header.Get("X-Amz-Security-Token")).To(Equal(svtest.SessionToken))
			}
			Expect(cf.Responses()).To(BeEmpty())
		})

		It("fails and stops at the first rejected request", func() {
			domain = svtest.NewFakeDomain(svtest.WithStatusSequence(403))
			DeferCleanup(domain.Close)

			err := invoke(event("Update", "", provisioningRequests))
			Expect(err).To(MatchError(lifecycle.ErrRequestsFailed))
			Expect(err.Error()).To(ContainSubstring("status 403"))
			Expect(domain.Received()).To(HaveLen(1))
		})

		It("ignores Delete", func() {
			domain = svtest.NewFakeDomain()
			DeferCleanup(domain.Close)

			Expect(invoke(event("Delete", "", provisioningRequests))).To(Succeed())
			Expect(domain.Received()).To(BeEmpty())
		})
	})

	Context("with a ResponseURL", func() {
		It("reports success once with the fixed physical id", func() {
			domain = svtest.NewFakeDomain()
			DeferCleanup(domain.Close)

			Expect(invoke(event("Create", cf.URL, legacyRequests))).To(Succeed())

			got := domain.Received()
			Expect(got).To(HaveLen(2))
			Expect(got[1].Header.Get("securitytenant")).To(Equal("global"))
			Expect(got[1].Header.Get("Content-Type")).To(Equal("multipart/form-data; boundary=----MyBoundary"))
			Expect(got[1].Body).To(ContainSubstring(`filename="dashboard.ndjson"`))
			Expect(got[1].Body).To(ContainSubstring(`{"type":"dashboard"}`))

			responses := cf.Responses()
			Expect(responses).To(HaveLen(1))
			Expect(responses[0].Status).To(Equal(cfn.StatusSuccess))
			Expect(responses[0].PhysicalResourceID).To(Equal(lifecycle.PhysicalResourceID))
			Expect(responses[0].RequestID).To(Equal("req-1"))
		})

		It("reports failure once when a request is rejected", func() {
			domain = svtest.NewFakeDomain(svtest.WithStatusSequence(500))
			DeferCleanup(domain.Close)

			Expect(invoke(event("Create", cf.URL, legacyRequests))).To(Succeed())

			Expect(domain.Received()).To(HaveLen(1))
			responses := cf.Responses()
			Expect(responses).To(HaveLen(1))
			Expect(responses[0].Status).To(Equal(cfn.StatusFailed))
			Expect(responses[0].Reason).To(ContainSubstring("one of the requests failed"))
		})

		It("reports success for Delete without contacting the domain", func() {
			domain = svtest.NewFakeDomain()
			DeferCleanup(domain.Close)

			Expect(invoke(event("Delete", cf.URL, legacyRequests))).To(Succeed())

			Expect(domain.Received()).To(BeEmpty())
			Expect(cf.Responses()).To(HaveLen(1))
			Expect(cf.Responses()[0].Status).To(Equal(cfn.StatusSuccess))
		})
	})
})
