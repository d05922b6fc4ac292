package http

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkidchain/v1/internal/api/http/handlers"
	proverapi "github.com/zkidchain/v1/internal/api/prover"
	"github.com/zkidchain/v1/internal/core/credential/disclosure"
	"github.com/zkidchain/v1/internal/core/credential/zkproof"
	"github.com/zkidchain/v1/internal/core/infrastructure/crypto/hash"
	infralog "github.com/zkidchain/v1/internal/core/infrastructure/log"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := infralog.GetLogger()
	hashManager := hash.NewManager()

	engine := zkproof.NewManager(hashManager, logger, nil)
	binder := disclosure.NewBinder(logger, hashManager, disclosure.StaticSchemaSource{
		"age_verification": 3,
	})

	service := proverapi.NewService(logger, engine)
	proofHandler := handlers.NewProofHandler(service, engine, logger)
	disclosureHandler := handlers.NewDisclosureHandler(binder, logger)

	return NewServer(nil, logger, proofHandler, disclosureHandler)
}

func doRequest(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "ok")
}

func TestGenerateProof_UnknownCircuitEnvelope(t *testing.T) {
	s := newTestServer(t)

	body := []byte(`{"circuit_id":"no_such_circuit","public_inputs":{},"private_inputs":""}`)
	w := doRequest(s, http.MethodPost, "/api/v1/proofs", body)

	// 封套端点：错误也是200，调用方看ok字段
	require.Equal(t, http.StatusOK, w.Code)

	var resp proverapi.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Ok)
	require.Contains(t, resp.Error, "unknown circuit id")
}

func TestVerifyProof_MalformedRequest(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodPost, "/api/v1/proofs/verify", []byte(`{"circuit_id":"age_verification"}`))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyProof_UnknownCircuit(t *testing.T) {
	s := newTestServer(t)

	body := []byte(`{"circuit_id":"bogus","public_inputs":{},"proof":"AAAA"}`)
	w := doRequest(s, http.MethodPost, "/api/v1/proofs/verify", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "unknown circuit id")
}

func TestBindDisclosure_RoundTripAndReplay(t *testing.T) {
	s := newTestServer(t)

	credID := make([]byte, disclosure.IDLen)
	_, err := rand.Read(credID)
	require.NoError(t, err)

	reqBody, err := json.Marshal(map[string]interface{}{
		"credential_id":    hex.EncodeToString(credID),
		"credential_type":  "age_verification",
		"active":           true,
		"fields_to_reveal": []uint32{0, 2},
		"proof":            base64.StdEncoding.EncodeToString([]byte("proof-bytes")),
		"timestamp":        uint64(0),
	})
	require.NoError(t, err)

	w := doRequest(s, http.MethodPost, "/api/v1/disclosures", reqBody)
	require.Equal(t, http.StatusOK, w.Code)

	var resp handlers.BindDisclosureResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.DisclosureID, 2*disclosure.IDLen)
	require.Equal(t, uint64(0b101), resp.FieldsBitmap)

	// 同一绑定重放：时间戳由绑定器填充，改用显式时间戳重放
	replayBody, err := json.Marshal(map[string]interface{}{
		"credential_id":    hex.EncodeToString(credID),
		"credential_type":  "age_verification",
		"active":           true,
		"fields_to_reveal": []uint32{0, 2},
		"proof":            base64.StdEncoding.EncodeToString([]byte("proof-bytes")),
		"timestamp":        resp.Timestamp,
	})
	require.NoError(t, err)

	w = doRequest(s, http.MethodPost, "/api/v1/disclosures", replayBody)
	require.Equal(t, http.StatusConflict, w.Code)

	// 披露历史可查
	w = doRequest(s, http.MethodGet, "/api/v1/disclosures/"+hex.EncodeToString(credID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), resp.DisclosureID)
}

func TestBindDisclosure_BadCredentialID(t *testing.T) {
	s := newTestServer(t)

	reqBody := []byte(`{"credential_id":"zz","credential_type":"age_verification","active":true,"fields_to_reveal":[0],"proof":"AAAA"}`)
	w := doRequest(s, http.MethodPost, "/api/v1/disclosures", reqBody)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBindDisclosure_OutOfSchemaField(t *testing.T) {
	s := newTestServer(t)

	credID := make([]byte, disclosure.IDLen)
	_, err := rand.Read(credID)
	require.NoError(t, err)

	reqBody, err := json.Marshal(map[string]interface{}{
		"credential_id":    hex.EncodeToString(credID),
		"credential_type":  "age_verification",
		"active":           true,
		"fields_to_reveal": []uint32{7},
		"proof":            base64.StdEncoding.EncodeToString([]byte("p")),
	})
	require.NoError(t, err)

	w := doRequest(s, http.MethodPost, "/api/v1/disclosures", reqBody)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestIDHeaderPropagated(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "test-request-id")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	require.Equal(t, "test-request-id", w.Header().Get("X-Request-ID"))
}
