// internal/models/application.go
package models

// Record is the flat, step-spanning set of answers for one candidate.
// Keys are the wire field names below; values are strings, []string for
// techs, and an attachment value for cv.
type Record map[string]interface{}

// Personal
const (
	FieldName     = "nome"
	FieldEmail    = "email"
	FieldWhatsApp = "whatsapp"
	FieldLinkedIn = "linkedin"
	FieldLocation = "localizacao"
)

// Experience + Portfolio
const (
	FieldExpPython = "exp_python"
	FieldExpLLM    = "exp_llm"
	FieldRAGLevel  = "conhece_rag"
	FieldTechs     = "techs"
	FieldGitHub    = "github"
	FieldProject   = "projeto"
	FieldCV        = "cv"
)

// Personality + Questions
const (
	FieldMBTI            = "mbti"
	FieldDISC            = "disc"
	FieldEnneagram       = "eneagrama"
	FieldMotivation      = "motivacao"
	FieldLearning        = "aprendizado"
	FieldSolvedProblem   = "problema_resolvido"
	FieldChunking        = "pergunta_chunking"
	FieldDebugging       = "pergunta_debug"
	FieldEvaluation      = "pergunta_eval"
	FieldFailureLearning = "pergunta_falha"
)

// Availability
const (
	FieldHoursPerWeek = "horas_semana"
	FieldAvailability = "disponibilidade"
	FieldHourlyRate   = "taxa"
	FieldComments     = "comentarios"
)

// FieldCVMetadata is the snapshot-only key that stands in for cv.
const FieldCVMetadata = "cv_metadata"

var (
	PythonExperienceValues  = []string{"menos-1", "1-2", "2-3", "3-5", "mais-5"}
	LLMExperienceValues     = []string{"nenhuma", "tutoriais", "projetos-pessoais", "profissional", "producao"}
	RAGKnowledgeValues      = []string{"nao", "conceito", "basico", "intermediario", "avancado"}
	HoursPerWeekValues      = []string{"10-15", "15-25", "25-35", "35+"}
	StartAvailabilityValues = []string{"imediata", "1-2-semanas", "2-4-semanas", "mais-1-mes"}
)

// TechnicalQuestionFields are required only for the RAG levels in technicalLevels.
var TechnicalQuestionFields = []string{FieldChunking, FieldDebugging, FieldEvaluation, FieldFailureLearning}

var technicalLevels = map[string]bool{
	"basico":        true,
	"intermediario": true,
	"avancado":      true,
}

// ShowTechnicalQuestions reports whether a RAG knowledge level unlocks the
// technical question block.
func ShowTechnicalQuestions(ragKnowledge string) bool {
	return technicalLevels[ragKnowledge]
}

// Clone copies the record one level deep; string slices are copied too so
// the clone can be mutated without touching the original.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		switch tv := v.(type) {
		case []string:
			out[k] = append([]string(nil), tv...)
		case []interface{}:
			out[k] = append([]interface{}(nil), tv...)
		default:
			out[k] = v
		}
	}
	return out
}

// String returns the field as a string. ok is false when the field is
// absent, nil, or not a string.
func (r Record) String(field string) (string, bool) {
	v, exists := r[field]
	if !exists || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// StringValue is String without the presence flag.
func (r Record) StringValue(field string) string {
	s, _ := r.String(field)
	return s
}

// Attachment returns the normalised cv value, or nil.
func (r Record) Attachment() *Attachment {
	return NormalizeAttachment(r[FieldCV])
}
