package goSms

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const aliyunDefaultEndpoint = "https://dysmsapi.aliyuncs.com"

// AliyunProvider delivers through the Aliyun Dysms SendSms RPC API. One HTTP
// call per Send; the request is signed with the account secret per the RPC
// signature scheme (sorted percent-encoded params, HMAC-SHA1).
//
// AliyunProvider instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AliyunProvider struct {
	config AliyunConfig
	client *http.Client
}

func newAliyunProvider(cfg AliyunConfig, timeout time.Duration) *AliyunProvider {
	if cfg.Endpoint == "" {
		cfg.Endpoint = aliyunDefaultEndpoint
	}
	return &AliyunProvider{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Name describes the name operation and its observable behavior.
//
// Name does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *AliyunProvider) Name() string { return ProviderAliyun }

type aliyunResponse struct {
	Code      string `json:"Code"`
	Message   string `json:"Message"`
	RequestID string `json:"RequestId"`
	BizID     string `json:"BizId"`
}

// Send describes the send operation and its observable behavior.
//
// Send may return an error when input validation, dependency calls, or security checks fail.
// Send does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *AliyunProvider) Send(ctx context.Context, phone, templateID string, params map[string]string) *SendFault {
	if p.config.AccessKeyID == "" || p.config.AccessKeySecret == "" {
		return permanentFault("MissingCredentials", "aliyun access key not configured")
	}
	if templateID == "" {
		templateID = p.config.TemplateCode
	}

	templateParam, err := json.Marshal(params)
	if err != nil {
		return permanentFault("BadTemplateParam", err.Error())
	}

	query := map[string]string{
		"AccessKeyId":      p.config.AccessKeyID,
		"Action":           "SendSms",
		"Format":           "JSON",
		"PhoneNumbers":     phone,
		"RegionId":         "cn-hangzhou",
		"SignName":         p.config.SignName,
		"SignatureMethod":  "HMAC-SHA1",
		"SignatureNonce":   uuid.NewString(),
		"SignatureVersion": "1.0",
		"TemplateCode":     templateID,
		"TemplateParam":    string(templateParam),
		"Timestamp":        time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		"Version":          "2017-05-25",
	}
	query["Signature"] = aliyunSignature(http.MethodGet, query, p.config.AccessKeySecret)

	values := url.Values{}
	for k, v := range query {
		values.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.Endpoint+"/?"+values.Encode(), nil)
	if err != nil {
		return permanentFault("BadRequest", err.Error())
	}

	resp, err := p.client.Do(req)
	if err != nil {
		// Transport-level failure, including the per-attempt timeout.
		return transientFault("Transport", err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return transientFault("Transport", err.Error())
	}

	var parsed aliyunResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return transientFault("BadResponse", err.Error())
	}

	if strings.EqualFold(parsed.Code, "OK") {
		return nil
	}
	if transientVendorCode(parsed.Code) {
		return transientFault(parsed.Code, parsed.Message)
	}
	return permanentFault(parsed.Code, parsed.Message)
}

// aliyunSignature computes the RPC-style request signature: params sorted by
// key, percent-encoded with the Aliyun escaping variant, signed with
// HMAC-SHA1 under secret+"&".
func aliyunSignature(method string, params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var canonical strings.Builder
	for i, k := range keys {
		if i > 0 {
			canonical.WriteByte('&')
		}
		canonical.WriteString(aliyunEscape(k))
		canonical.WriteByte('=')
		canonical.WriteString(aliyunEscape(params[k]))
	}

	stringToSign := method + "&" + aliyunEscape("/") + "&" + aliyunEscape(canonical.String())

	mac := hmac.New(sha1.New, []byte(secret+"&"))
	mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func aliyunEscape(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	escaped = strings.ReplaceAll(escaped, "*", "%2A")
	escaped = strings.ReplaceAll(escaped, "%7E", "~")
	return escaped
}

// transientVendorCode reports whether a provider status code names a
// quota/throttle condition worth retrying: the Aliyun "isv." transient
// namespace or any LIMIT/THROTTLE marker. Shared by both network providers.
func transientVendorCode(code string) bool {
	if strings.HasPrefix(code, "isv") {
		return true
	}
	upper := strings.ToUpper(code)
	return strings.Contains(upper, "LIMIT") || strings.Contains(upper, "THROTTLE")
}
