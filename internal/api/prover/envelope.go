// Package prover 实现证明生成请求的统一线格式封套
//
// ============================================================================
// 跨边界请求封套
// ============================================================================
//
// 🎯 **专门职责**：
// 解析与传输无关的单次证明请求线格式，分发到对应电路，
// 并把所有结果（成功或任何错误类别）统一序列化为响应封套，
// 使跨语言调用方不需要理解任何原生错误类型。
//
// 📋 **线格式**：
// 请求: { circuit_id, public_inputs(按电路的标签变体),
//        private_inputs(base64不透明块), proving_key(base64，可选) }
// 响应: { ok: true,  proof: base64, public_inputs: [base64...] }
//       { ok: false, error: 诊断字符串 }
//
// ⚠️ **隐私约束**：错误字符串只用于诊断，绝不包含见证值；
// 解码出的私有输入在所有退出路径上清零。
//
// ============================================================================
package prover

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"math/big"

	"github.com/zkidchain/v1/pkg/interfaces/infrastructure/log"

	"github.com/zkidchain/v1/internal/core/credential/zkproof"
	"github.com/zkidchain/v1/internal/core/credential/zkproof/circuits"
)

// Request 证明生成请求封套
type Request struct {
	CircuitID     string          `json:"circuit_id"`
	PublicInputs  json.RawMessage `json:"public_inputs"`
	PrivateInputs string          `json:"private_inputs"` // base64(JSON私有输入块)
	ProvingKey    string          `json:"proving_key"`    // base64(压缩证明密钥)，留空用引擎内可信设置
}

// Response 证明生成响应封套
type Response struct {
	Ok           bool     `json:"ok"`
	Proof        string   `json:"proof,omitempty"`         // base64(压缩证明)
	PublicInputs []string `json:"public_inputs,omitempty"` // base64(32字节域元素)，电路声明顺序
	Error        string   `json:"error,omitempty"`
}

// Service 封套处理服务
type Service struct {
	logger log.Logger
	engine *zkproof.Manager
}

// NewService 创建封套处理服务
func NewService(logger log.Logger, engine *zkproof.Manager) *Service {
	return &Service{logger: logger, engine: engine}
}

// HandleRequest 处理一次证明请求
//
// 永不返回Go错误：所有结果都折叠进响应封套。
func (s *Service) HandleRequest(ctx context.Context, reqBytes []byte) []byte {
	var req Request
	if err := json.Unmarshal(reqBytes, &req); err != nil {
		return errorResponse("json parse error: " + err.Error())
	}

	circuitID := circuits.CircuitID(req.CircuitID)
	if !circuitID.IsValid() {
		return errorResponse("unknown circuit id: " + req.CircuitID)
	}

	inst, err := s.buildInstance(circuitID, &req)
	if err != nil {
		return errorResponse(err.Error())
	}

	var result *zkproof.ProofResult
	if req.ProvingKey != "" {
		pkBytes, decErr := base64.StdEncoding.DecodeString(req.ProvingKey)
		if decErr != nil {
			inst.Zeroize()
			return errorResponse("proving key decode error: " + decErr.Error())
		}
		result, err = s.engine.Prover().GenerateProofWithProvingKey(ctx, inst, pkBytes)
	} else {
		result, err = s.engine.GenerateProof(ctx, inst)
	}
	if err != nil {
		// 引擎错误消息按设计不含见证值，可直接透传
		return errorResponse(err.Error())
	}

	return successResponse(result)
}

// buildInstance 按电路标识分发到变体构造
func (s *Service) buildInstance(circuitID circuits.CircuitID, req *Request) (zkproof.Instance, error) {
	privBytes, err := base64.StdEncoding.DecodeString(req.PrivateInputs)
	if err != nil {
		return nil, errInput("private inputs decode error: " + err.Error())
	}
	defer wipe(privBytes)

	switch circuitID {
	case circuits.AgeVerificationID:
		return buildAgeInstance(req.PublicInputs, privBytes)
	case circuits.StudentStatusID:
		return buildStudentInstance(req.PublicInputs, privBytes)
	case circuits.VaccinationStatusID:
		return buildVaccinationInstance(req.PublicInputs, privBytes)
	case circuits.EmploymentStatusID:
		return buildEmploymentInstance(req.PublicInputs, privBytes)
	case circuits.CustomID:
		return buildCustomInstance(req.PublicInputs, privBytes)
	default:
		return nil, errInput("unknown circuit id: " + circuitID.String())
	}
}

// ==================== 变体线格式 ====================

type agePublicWire struct {
	CurrentTimestamp   uint64 `json:"current_timestamp"`
	AgeThresholdYears  uint64 `json:"age_threshold_years"`
	CredentialTypeHash string `json:"credential_type_hash"`
}

type agePrivateWire struct {
	BirthTimestamp      uint64 `json:"birth_timestamp"`
	CredentialHash      string `json:"credential_hash"`
	IssuerSignatureHash string `json:"issuer_signature_hash"`
}

func buildAgeInstance(pubRaw json.RawMessage, privBytes []byte) (zkproof.Instance, error) {
	var pubWire agePublicWire
	if err := json.Unmarshal(pubRaw, &pubWire); err != nil {
		return nil, errInput("public inputs parse error: " + err.Error())
	}
	var privWire agePrivateWire
	if err := json.Unmarshal(privBytes, &privWire); err != nil {
		return nil, errInput("private inputs parse error")
	}

	typeHash, err := decodeHash(pubWire.CredentialTypeHash)
	if err != nil {
		return nil, err
	}
	credHash, err := decodeHash(privWire.CredentialHash)
	if err != nil {
		return nil, err
	}
	sigHash, err := decodeHash(privWire.IssuerSignatureHash)
	if err != nil {
		return nil, err
	}

	return &zkproof.AgeInstance{
		Public: zkproof.AgePublicInputs{
			CurrentTimestamp:   pubWire.CurrentTimestamp,
			AgeThresholdYears:  pubWire.AgeThresholdYears,
			CredentialTypeHash: typeHash,
		},
		Private: zkproof.AgePrivateInputs{
			BirthTimestamp:      privWire.BirthTimestamp,
			CredentialHash:      credHash,
			IssuerSignatureHash: sigHash,
		},
	}, nil
}

type studentPublicWire struct {
	CurrentTimestamp uint64 `json:"current_timestamp"`
	InstitutionHash  string `json:"institution_hash"`
	StatusActive     bool   `json:"status_active"`
}

type studentPrivateWire struct {
	StudentIDHash       string `json:"student_id_hash"`
	EnrollmentDate      uint64 `json:"enrollment_date"`
	ExpiryDate          uint64 `json:"expiry_date"`
	Gpa                 uint64 `json:"gpa"`
	CredentialHash      string `json:"credential_hash"`
	IssuerSignatureHash string `json:"issuer_signature_hash"`
}

func buildStudentInstance(pubRaw json.RawMessage, privBytes []byte) (zkproof.Instance, error) {
	var pubWire studentPublicWire
	if err := json.Unmarshal(pubRaw, &pubWire); err != nil {
		return nil, errInput("public inputs parse error: " + err.Error())
	}
	var privWire studentPrivateWire
	if err := json.Unmarshal(privBytes, &privWire); err != nil {
		return nil, errInput("private inputs parse error")
	}

	instHash, err := decodeHash(pubWire.InstitutionHash)
	if err != nil {
		return nil, err
	}
	idHash, err := decodeHash(privWire.StudentIDHash)
	if err != nil {
		return nil, err
	}
	credHash, err := decodeHash(privWire.CredentialHash)
	if err != nil {
		return nil, err
	}
	sigHash, err := decodeHash(privWire.IssuerSignatureHash)
	if err != nil {
		return nil, err
	}

	return &zkproof.StudentInstance{
		Public: zkproof.StudentPublicInputs{
			CurrentTimestamp: pubWire.CurrentTimestamp,
			InstitutionHash:  instHash,
			StatusActive:     pubWire.StatusActive,
		},
		Private: zkproof.StudentPrivateInputs{
			StudentIDHash:       idHash,
			EnrollmentDate:      privWire.EnrollmentDate,
			ExpiryDate:          privWire.ExpiryDate,
			Gpa:                 privWire.Gpa,
			CredentialHash:      credHash,
			IssuerSignatureHash: sigHash,
		},
	}, nil
}

type vaccinationPublicWire struct {
	CurrentTimestamp    uint64 `json:"current_timestamp"`
	VaccinationTypeHash string `json:"vaccination_type_hash"`
	MinDosesRequired    uint64 `json:"min_doses_required"`
}

type vaccinationPrivateWire struct {
	PatientIDHash       string `json:"patient_id_hash"`
	VaccinationDate     uint64 `json:"vaccination_date"`
	ExpiryDate          uint64 `json:"expiry_date"`
	DosesReceived       uint64 `json:"doses_received"`
	BatchNumberHash     string `json:"batch_number_hash"`
	CredentialHash      string `json:"credential_hash"`
	IssuerSignatureHash string `json:"issuer_signature_hash"`
}

func buildVaccinationInstance(pubRaw json.RawMessage, privBytes []byte) (zkproof.Instance, error) {
	var pubWire vaccinationPublicWire
	if err := json.Unmarshal(pubRaw, &pubWire); err != nil {
		return nil, errInput("public inputs parse error: " + err.Error())
	}
	var privWire vaccinationPrivateWire
	if err := json.Unmarshal(privBytes, &privWire); err != nil {
		return nil, errInput("private inputs parse error")
	}

	typeHash, err := decodeHash(pubWire.VaccinationTypeHash)
	if err != nil {
		return nil, err
	}
	patientHash, err := decodeHash(privWire.PatientIDHash)
	if err != nil {
		return nil, err
	}
	batchHash, err := decodeHash(privWire.BatchNumberHash)
	if err != nil {
		return nil, err
	}
	credHash, err := decodeHash(privWire.CredentialHash)
	if err != nil {
		return nil, err
	}
	sigHash, err := decodeHash(privWire.IssuerSignatureHash)
	if err != nil {
		return nil, err
	}

	return &zkproof.VaccinationInstance{
		Public: zkproof.VaccinationPublicInputs{
			CurrentTimestamp:    pubWire.CurrentTimestamp,
			VaccinationTypeHash: typeHash,
			MinDosesRequired:    pubWire.MinDosesRequired,
		},
		Private: zkproof.VaccinationPrivateInputs{
			PatientIDHash:       patientHash,
			VaccinationDate:     privWire.VaccinationDate,
			ExpiryDate:          privWire.ExpiryDate,
			DosesReceived:       privWire.DosesReceived,
			BatchNumberHash:     batchHash,
			CredentialHash:      credHash,
			IssuerSignatureHash: sigHash,
		},
	}, nil
}

type employmentPublicWire struct {
	CurrentTimestamp   uint64 `json:"current_timestamp"`
	CompanyHash        string `json:"company_hash"`
	EmploymentTypeHash string `json:"employment_type_hash"`
}

type employmentPrivateWire struct {
	EmployeeIDHash      string `json:"employee_id_hash"`
	StartDate           uint64 `json:"start_date"`
	EndDate             uint64 `json:"end_date"`
	Salary              uint64 `json:"salary"`
	PositionHash        string `json:"position_hash"`
	CredentialHash      string `json:"credential_hash"`
	IssuerSignatureHash string `json:"issuer_signature_hash"`
}

func buildEmploymentInstance(pubRaw json.RawMessage, privBytes []byte) (zkproof.Instance, error) {
	var pubWire employmentPublicWire
	if err := json.Unmarshal(pubRaw, &pubWire); err != nil {
		return nil, errInput("public inputs parse error: " + err.Error())
	}
	var privWire employmentPrivateWire
	if err := json.Unmarshal(privBytes, &privWire); err != nil {
		return nil, errInput("private inputs parse error")
	}

	companyHash, err := decodeHash(pubWire.CompanyHash)
	if err != nil {
		return nil, err
	}
	typeHash, err := decodeHash(pubWire.EmploymentTypeHash)
	if err != nil {
		return nil, err
	}
	employeeHash, err := decodeHash(privWire.EmployeeIDHash)
	if err != nil {
		return nil, err
	}
	positionHash, err := decodeHash(privWire.PositionHash)
	if err != nil {
		return nil, err
	}
	credHash, err := decodeHash(privWire.CredentialHash)
	if err != nil {
		return nil, err
	}
	sigHash, err := decodeHash(privWire.IssuerSignatureHash)
	if err != nil {
		return nil, err
	}

	return &zkproof.EmploymentInstance{
		Public: zkproof.EmploymentPublicInputs{
			CurrentTimestamp:   pubWire.CurrentTimestamp,
			CompanyHash:        companyHash,
			EmploymentTypeHash: typeHash,
		},
		Private: zkproof.EmploymentPrivateInputs{
			EmployeeIDHash:      employeeHash,
			StartDate:           privWire.StartDate,
			EndDate:             privWire.EndDate,
			Salary:              privWire.Salary,
			PositionHash:        positionHash,
			CredentialHash:      credHash,
			IssuerSignatureHash: sigHash,
		},
	}, nil
}

type customPublicWire struct {
	PredicateID string   `json:"predicate_id"`
	Values      []string `json:"values"` // base64(32字节域元素)
}

type customPrivateWire struct {
	Values []string `json:"values"`
}

func buildCustomInstance(pubRaw json.RawMessage, privBytes []byte) (zkproof.Instance, error) {
	var pubWire customPublicWire
	if err := json.Unmarshal(pubRaw, &pubWire); err != nil {
		return nil, errInput("public inputs parse error: " + err.Error())
	}
	var privWire customPrivateWire
	if err := json.Unmarshal(privBytes, &privWire); err != nil {
		return nil, errInput("private inputs parse error")
	}

	pubValues, err := decodeFieldValues(pubWire.Values)
	if err != nil {
		return nil, err
	}
	privValues, err := decodeFieldValues(privWire.Values)
	if err != nil {
		return nil, err
	}

	return &zkproof.CustomInstance{
		Public: zkproof.CustomPublicInputs{
			PredicateID: pubWire.PredicateID,
			Values:      pubValues,
		},
		Private: zkproof.CustomPrivateInputs{Values: privValues},
	}, nil
}

// BuildVerifyInstance 从公开输入线格式构造仅公开的电路实例（验证方用）
//
// nbPrivate 仅自定义电路需要（线格式形状的私有侧），其余电路忽略。
func BuildVerifyInstance(circuitID circuits.CircuitID, pubRaw json.RawMessage, nbPrivate int) (zkproof.Instance, error) {
	switch circuitID {
	case circuits.AgeVerificationID:
		var pubWire agePublicWire
		if err := json.Unmarshal(pubRaw, &pubWire); err != nil {
			return nil, errInput("public inputs parse error: " + err.Error())
		}
		typeHash, err := decodeHash(pubWire.CredentialTypeHash)
		if err != nil {
			return nil, err
		}
		return &zkproof.AgeInstance{Public: zkproof.AgePublicInputs{
			CurrentTimestamp:   pubWire.CurrentTimestamp,
			AgeThresholdYears:  pubWire.AgeThresholdYears,
			CredentialTypeHash: typeHash,
		}}, nil

	case circuits.StudentStatusID:
		var pubWire studentPublicWire
		if err := json.Unmarshal(pubRaw, &pubWire); err != nil {
			return nil, errInput("public inputs parse error: " + err.Error())
		}
		instHash, err := decodeHash(pubWire.InstitutionHash)
		if err != nil {
			return nil, err
		}
		return &zkproof.StudentInstance{Public: zkproof.StudentPublicInputs{
			CurrentTimestamp: pubWire.CurrentTimestamp,
			InstitutionHash:  instHash,
			StatusActive:     pubWire.StatusActive,
		}}, nil

	case circuits.VaccinationStatusID:
		var pubWire vaccinationPublicWire
		if err := json.Unmarshal(pubRaw, &pubWire); err != nil {
			return nil, errInput("public inputs parse error: " + err.Error())
		}
		typeHash, err := decodeHash(pubWire.VaccinationTypeHash)
		if err != nil {
			return nil, err
		}
		return &zkproof.VaccinationInstance{Public: zkproof.VaccinationPublicInputs{
			CurrentTimestamp:    pubWire.CurrentTimestamp,
			VaccinationTypeHash: typeHash,
			MinDosesRequired:    pubWire.MinDosesRequired,
		}}, nil

	case circuits.EmploymentStatusID:
		var pubWire employmentPublicWire
		if err := json.Unmarshal(pubRaw, &pubWire); err != nil {
			return nil, errInput("public inputs parse error: " + err.Error())
		}
		companyHash, err := decodeHash(pubWire.CompanyHash)
		if err != nil {
			return nil, err
		}
		typeHash, err := decodeHash(pubWire.EmploymentTypeHash)
		if err != nil {
			return nil, err
		}
		return &zkproof.EmploymentInstance{Public: zkproof.EmploymentPublicInputs{
			CurrentTimestamp:   pubWire.CurrentTimestamp,
			CompanyHash:        companyHash,
			EmploymentTypeHash: typeHash,
		}}, nil

	case circuits.CustomID:
		var pubWire customPublicWire
		if err := json.Unmarshal(pubRaw, &pubWire); err != nil {
			return nil, errInput("public inputs parse error: " + err.Error())
		}
		pubValues, err := decodeFieldValues(pubWire.Values)
		if err != nil {
			return nil, err
		}
		return &zkproof.CustomInstance{
			Public: zkproof.CustomPublicInputs{
				PredicateID: pubWire.PredicateID,
				Values:      pubValues,
			},
			NbPrivate: nbPrivate,
		}, nil

	default:
		return nil, errInput("unknown circuit id: " + circuitID.String())
	}
}

// ==================== 辅助函数 ====================

type inputError string

func (e inputError) Error() string { return string(e) }

func errInput(msg string) error { return inputError(msg) }

func decodeHash(b64 string) ([zkproof.FieldByteLen]byte, error) {
	var out [zkproof.FieldByteLen]byte

	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return out, errInput("hash decode error: " + err.Error())
	}
	if len(raw) != zkproof.FieldByteLen {
		return out, errInput("hash value must be exactly 32 bytes")
	}

	copy(out[:], raw)
	wipe(raw)
	return out, nil
}

func decodeFieldValues(encoded []string) ([]*big.Int, error) {
	out := make([]*big.Int, 0, len(encoded))
	for _, b64 := range encoded {
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, errInput("field value decode error: " + err.Error())
		}
		if len(raw) != zkproof.FieldByteLen {
			return nil, errInput("field value must be exactly 32 bytes")
		}
		v, err := zkproof.FieldFromBytes(raw)
		if err != nil {
			return nil, errInput("field value out of range")
		}
		wipe(raw)
		out = append(out, v)
	}
	return out, nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func successResponse(result *zkproof.ProofResult) []byte {
	resp := Response{
		Ok:           true,
		Proof:        base64.StdEncoding.EncodeToString(result.ProofData),
		PublicInputs: make([]string, 0, len(result.PublicInputs)),
	}
	for _, pi := range result.PublicInputs {
		resp.PublicInputs = append(resp.PublicInputs, base64.StdEncoding.EncodeToString(pi))
	}

	out, _ := json.Marshal(resp)
	return out
}

func errorResponse(msg string) []byte {
	out, _ := json.Marshal(Response{Ok: false, Error: msg})
	return out
}
