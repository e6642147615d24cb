package mtsa

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/model"
	"github.com/kreditmy/signing-orchestrator/pkg/util"
	"github.com/sirupsen/logrus"
)

const (
	soapEnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"

	// Signed PDFs travel base64-encoded inside the response envelope.
	maxResponseBytes = 96 << 20
)

type Env string

const (
	EnvPilot Env = "pilot"
	EnvProd  Env = "prod"
)

type Config struct {
	Env       Env    `yaml:"env"`
	WSDLPilot string `yaml:"wsdl_pilot"`
	WSDLProd  string `yaml:"wsdl_prod"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`

	TimeoutMs      int `yaml:"timeout_ms"`
	RetryMax       int `yaml:"retry_max"`
	RetryBackoffMs int `yaml:"retry_backoff_ms"`
}

// RetryPolicy controls the transport retry of gateway calls. Delay grows
// linearly: backoff × attempt number. Business rejections (non-0000 status
// codes) never enter the retry loop.
type RetryPolicy struct {
	MaxAttempts uint
	Backoff     time.Duration
}

func (p RetryPolicy) DelayFor(retryNumber uint) time.Duration {
	return p.Backoff * time.Duration(retryNumber+1)
}

// Client is the SOAP implementation of Gateway. The endpoint is derived
// from the configured WSDL URL at construction; the WSDL itself is only
// fetched by Health.
type Client struct {
	wsdlURL    string
	endpoint   string
	username   string
	password   string
	retry      RetryPolicy
	httpClient *http.Client
}

func NewClientWithConfig(cfg Config) (*Client, error) {
	wsdlURL := cfg.WSDLPilot
	if cfg.Env == EnvProd {
		wsdlURL = cfg.WSDLProd
	}
	if wsdlURL == "" {
		return nil, fmt.Errorf("no WSDL URL configured for environment %q%w", cfg.Env, model.ErrInvalidParameter)
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("MTSA credentials are not configured%w", model.ErrInvalidParameter)
	}

	retryMax := cfg.RetryMax
	if retryMax < 1 {
		retryMax = 1
	}

	return &Client{
		wsdlURL:  wsdlURL,
		endpoint: endpointFromWSDL(wsdlURL),
		username: cfg.Username,
		password: cfg.Password,
		retry: RetryPolicy{
			MaxAttempts: uint(retryMax),
			Backoff:     time.Duration(cfg.RetryBackoffMs) * time.Millisecond,
		},
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond},
	}, nil
}

func endpointFromWSDL(wsdlURL string) string {
	if i := strings.Index(wsdlURL, "?"); i >= 0 {
		return wsdlURL[:i]
	}
	return wsdlURL
}

type soapEnvelope struct {
	XMLName xml.Name `xml:"soapenv:Envelope"`
	NS      string   `xml:"xmlns:soapenv,attr"`
	Body    soapBody `xml:"soapenv:Body"`
}

type soapBody struct {
	Payload interface{}
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	Reason string `xml:"faultstring"`
}

type soapResponseEnvelope struct {
	Body struct {
		Fault *soapFault `xml:"Fault"`
		Inner []byte     `xml:",innerxml"`
	} `xml:"Body"`
}

// soapCall runs one gateway operation with the client's retry policy. T is
// the decoded <return> payload. Every attempt is logged with the attempt
// number and the request's redacted field view.
func soapCall[T any](ctx context.Context, c *Client, operation string, payload interface{ LogFields() logrus.Fields }) (T, error) {
	var result T
	log := util.CtxLogger(ctx).WithFields(payload.LogFields())

	envelope := soapEnvelope{NS: soapEnvelopeNamespace, Body: soapBody{Payload: payload}}
	encoded, err := xml.Marshal(envelope)
	if err != nil {
		return result, fmt.Errorf("encode %s request: %w", operation, err)
	}
	requestBody := append([]byte(xml.Header), encoded...)

	attempt := 0
	err = retry.Do(
		func() error {
			attempt++
			log.WithField("attempt", attempt).Debugf("calling MTSA %s", operation)
			return c.roundTrip(ctx, requestBody, &result)
		},
		retry.Attempts(c.retry.MaxAttempts),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			return c.retry.DelayFor(n)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Warnf("MTSA %s failed (attempt %d/%d): %v", operation, n+1, c.retry.MaxAttempts, err)
		}),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		log.Errorf("MTSA %s failed after %d attempts: %v", operation, attempt, err)
		return result, fmt.Errorf("%s: %v%w", operation, err, model.ErrGatewayTransport)
	}
	return result, nil
}

func (c *Client) roundTrip(ctx context.Context, requestBody []byte, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", `text/xml; charset="utf-8"`)
	req.Header.Set("SOAPAction", `""`)
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	responseBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var envelope soapResponseEnvelope
	if err := xml.Unmarshal(responseBody, &envelope); err != nil {
		return fmt.Errorf("decode response envelope (HTTP %d): %w", resp.StatusCode, err)
	}
	if envelope.Body.Fault != nil {
		return fmt.Errorf("soap fault %s: %s", envelope.Body.Fault.Code, envelope.Body.Fault.Reason)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	wrapper := struct {
		Return interface{} `xml:"return"`
	}{Return: result}
	if err := xml.Unmarshal(envelope.Body.Inner, &wrapper); err != nil {
		return fmt.Errorf("decode response payload: %w", err)
	}
	return nil
}

func (c *Client) RequestEmailOTP(ctx context.Context, req RequestEmailOTPRequest) (RequestEmailOTPResponse, error) {
	if err := ValidateRequestEmailOTPRequest(req); err != nil {
		return RequestEmailOTPResponse{}, err
	}

	log := util.CtxLogger(ctx).WithFields(req.LogFields())
	log.Info("requesting email OTP")
	res, err := soapCall[RequestEmailOTPResponse](ctx, c, "RequestEmailOTP", req)
	if err != nil {
		return res, err
	}
	log.WithFields(logrus.Fields{"status_code": res.StatusCode, "otp_sent": res.OTPSent}).
		Info("email OTP request completed")
	return res, nil
}

func (c *Client) RequestCertificate(ctx context.Context, req RequestCertificateRequest) (RequestCertificateResponse, error) {
	if err := ValidateRequestCertificateRequest(req); err != nil {
		return RequestCertificateResponse{}, err
	}

	log := util.CtxLogger(ctx).WithFields(req.LogFields())
	log.Info("requesting certificate enrollment")
	res, err := soapCall[RequestCertificateResponse](ctx, c, "RequestCertificate", req)
	if err != nil {
		return res, err
	}
	log.WithFields(logrus.Fields{"status_code": res.StatusCode, "has_cert_serial_no": res.CertSerialNo != ""}).
		Info("certificate enrollment completed")
	return res, nil
}

func (c *Client) GetCertInfo(ctx context.Context, req GetCertInfoRequest) (GetCertInfoResponse, error) {
	if err := ValidateGetCertInfoRequest(req); err != nil {
		return GetCertInfoResponse{}, err
	}

	log := util.CtxLogger(ctx).WithFields(req.LogFields())
	log.Info("getting certificate info")
	res, err := soapCall[GetCertInfoResponse](ctx, c, "GetCertInfo", req)
	if err != nil {
		return res, err
	}
	log.WithFields(logrus.Fields{"status_code": res.StatusCode, "cert_status": res.CertStatus}).
		Info("certificate info retrieved")
	return res, nil
}

func (c *Client) SignPDF(ctx context.Context, req SignPDFRequest) (SignPDFResponse, error) {
	if err := ValidateSignPDFRequest(req); err != nil {
		return SignPDFResponse{}, err
	}

	log := util.CtxLogger(ctx).WithFields(req.LogFields())
	log.Info("signing PDF document")
	res, err := soapCall[SignPDFResponse](ctx, c, "SignPDF", req)
	if err != nil {
		return res, err
	}
	log.WithFields(logrus.Fields{"status_code": res.StatusCode, "has_signed_pdf": res.SignedPdfInBase64 != ""}).
		Info("PDF signing completed")
	return res, nil
}

func (c *Client) VerifyPDFSignature(ctx context.Context, req VerifyPDFSignatureRequest) (VerifyPDFSignatureResponse, error) {
	if err := ValidateVerifyPDFSignatureRequest(req); err != nil {
		return VerifyPDFSignatureResponse{}, err
	}

	log := util.CtxLogger(ctx)
	log.Info("verifying PDF signature")
	res, err := soapCall[VerifyPDFSignatureResponse](ctx, c, "VerifyPDFSignature", req)
	if err != nil {
		return res, err
	}
	log.WithFields(logrus.Fields{"status_code": res.StatusCode, "total_signatures": res.TotalSignatureInPdf}).
		Info("PDF signature verification completed")
	return res, nil
}

func (c *Client) RequestRevokeCert(ctx context.Context, req RequestRevokeCertRequest) (RequestRevokeCertResponse, error) {
	if err := ValidateRequestRevokeCertRequest(req); err != nil {
		return RequestRevokeCertResponse{}, err
	}

	log := util.CtxLogger(ctx).WithFields(req.LogFields())
	log.Info("requesting certificate revocation")
	res, err := soapCall[RequestRevokeCertResponse](ctx, c, "RequestRevokeCert", req)
	if err != nil {
		return res, err
	}
	log.WithFields(logrus.Fields{"status_code": res.StatusCode, "revoked": res.Revoked}).
		Info("certificate revocation completed")
	return res, nil
}

// Health fetches the WSDL and requires it to enumerate at least one
// operation.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.wsdlURL, nil)
	if err != nil {
		return fmt.Errorf("create WSDL request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch WSDL: %v%w", err, model.ErrGatewayUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch WSDL: unexpected status code %d%w", resp.StatusCode, model.ErrGatewayUnavailable)
	}

	operations := 0
	decoder := xml.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("decode WSDL: %v%w", err, model.ErrGatewayUnavailable)
		}
		if start, ok := token.(xml.StartElement); ok && start.Name.Local == "operation" {
			operations++
		}
	}
	if operations == 0 {
		return fmt.Errorf("WSDL enumerates no operations%w", model.ErrGatewayUnavailable)
	}
	return nil
}
