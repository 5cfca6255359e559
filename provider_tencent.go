package goSms

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	tencentDefaultEndpoint = "https://sms.tencentcloudapi.com"
	tencentDefaultRegion   = "ap-guangzhou"
	tencentAPIVersion      = "2021-01-11"
	tencentService         = "sms"
)

// TencentProvider delivers through the Tencent Cloud SMS v20210111 SendSms
// API. One HTTPS POST per Send, signed with the TC3-HMAC-SHA256 scheme.
//
// TencentProvider instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TencentProvider struct {
	config TencentConfig
	client *http.Client
}

func newTencentProvider(cfg TencentConfig, timeout time.Duration) *TencentProvider {
	if cfg.Endpoint == "" {
		cfg.Endpoint = tencentDefaultEndpoint
	}
	if cfg.Region == "" {
		cfg.Region = tencentDefaultRegion
	}
	return &TencentProvider{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Name describes the name operation and its observable behavior.
//
// Name does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *TencentProvider) Name() string { return ProviderTencent }

type tencentSendStatus struct {
	Code    string `json:"Code"`
	Message string `json:"Message"`
}

type tencentResponse struct {
	Response struct {
		SendStatusSet []tencentSendStatus `json:"SendStatusSet"`
		Error         *struct {
			Code    string `json:"Code"`
			Message string `json:"Message"`
		} `json:"Error"`
		RequestID string `json:"RequestId"`
	} `json:"Response"`
}

// Send describes the send operation and its observable behavior.
//
// Send may return an error when input validation, dependency calls, or security checks fail.
// Send does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *TencentProvider) Send(ctx context.Context, phone, templateID string, params map[string]string) *SendFault {
	if p.config.SecretID == "" || p.config.SecretKey == "" || p.config.SDKAppID == "" || p.config.SignName == "" {
		return permanentFault("MissingCredentials", "tencent sms credentials not configured")
	}
	if templateID == "" {
		templateID = p.config.TemplateID
	}

	// TemplateParamSet is positional; the verification template takes the
	// code as its single parameter.
	templateParams := []string{}
	if code, ok := params["code"]; ok {
		templateParams = append(templateParams, code)
	} else {
		blob, err := json.Marshal(params)
		if err != nil {
			return permanentFault("BadTemplateParam", err.Error())
		}
		templateParams = append(templateParams, string(blob))
	}

	payload, err := json.Marshal(map[string]any{
		"PhoneNumberSet":   []string{phone},
		"SmsSdkAppId":      p.config.SDKAppID,
		"SignName":         p.config.SignName,
		"TemplateId":       templateID,
		"TemplateParamSet": templateParams,
	})
	if err != nil {
		return permanentFault("BadRequest", err.Error())
	}

	endpoint, err := url.Parse(p.config.Endpoint)
	if err != nil {
		return permanentFault("BadEndpoint", err.Error())
	}

	now := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return permanentFault("BadRequest", err.Error())
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("X-TC-Action", "SendSms")
	req.Header.Set("X-TC-Version", tencentAPIVersion)
	req.Header.Set("X-TC-Region", p.config.Region)
	req.Header.Set("X-TC-Timestamp", strconv.FormatInt(now.Unix(), 10))
	req.Header.Set("Authorization", tc3Authorization(p.config.SecretID, p.config.SecretKey, endpoint.Host, payload, now))

	resp, err := p.client.Do(req)
	if err != nil {
		return transientFault("Transport", err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return transientFault("Transport", err.Error())
	}

	var parsed tencentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return transientFault("BadResponse", err.Error())
	}

	if apiErr := parsed.Response.Error; apiErr != nil {
		if transientVendorCode(apiErr.Code) {
			return transientFault(apiErr.Code, apiErr.Message)
		}
		return permanentFault(apiErr.Code, apiErr.Message)
	}

	if len(parsed.Response.SendStatusSet) > 0 {
		status := parsed.Response.SendStatusSet[0]
		if !tencentSuccessCode(status.Code) {
			if transientVendorCode(status.Code) {
				return transientFault(status.Code, status.Message)
			}
			return permanentFault(status.Code, status.Message)
		}
	}

	return nil
}

func tencentSuccessCode(code string) bool {
	switch strings.ToUpper(code) {
	case "OK", "SUCCESS", "000000":
		return true
	default:
		return false
	}
}

// tc3Authorization builds the TC3-HMAC-SHA256 Authorization header for a
// SendSms POST with signed headers content-type and host.
func tc3Authorization(secretID, secretKey, host string, payload []byte, now time.Time) string {
	payloadHash := sha256.Sum256(payload)

	canonicalRequest := strings.Join([]string{
		http.MethodPost,
		"/",
		"",
		"content-type:application/json; charset=utf-8\nhost:" + host + "\n",
		"content-type;host",
		hex.EncodeToString(payloadHash[:]),
	}, "\n")
	canonicalHash := sha256.Sum256([]byte(canonicalRequest))

	date := now.UTC().Format("2006-01-02")
	scope := date + "/" + tencentService + "/tc3_request"
	stringToSign := strings.Join([]string{
		"TC3-HMAC-SHA256",
		strconv.FormatInt(now.Unix(), 10),
		scope,
		hex.EncodeToString(canonicalHash[:]),
	}, "\n")

	secretDate := hmacSHA256([]byte("TC3"+secretKey), date)
	secretService := hmacSHA256(secretDate, tencentService)
	secretSigning := hmacSHA256(secretService, "tc3_request")
	signature := hex.EncodeToString(hmacSHA256(secretSigning, stringToSign))

	return "TC3-HMAC-SHA256 Credential=" + secretID + "/" + scope +
		", SignedHeaders=content-type;host, Signature=" + signature
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}
