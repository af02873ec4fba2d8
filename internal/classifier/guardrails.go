package classifier

import (
	"strings"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
)

// GuardrailRule is a deterministic, highest-precedence classification rule
// (spec §4.2 step 1): if any of its Keywords occurs in the lowercased text
// or lowercased filename, it fires outright at confidence 0.95.
type GuardrailRule struct {
	Name     string
	Domain   string
	Category string
	Keywords []string
}

// Match reports whether the rule fires for the given (already-lowercased)
// filename and text.
func (r GuardrailRule) Match(lowerFilename, lowerText string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lowerText, kw) || strings.Contains(lowerFilename, kw) {
			return true
		}
	}
	return false
}

// Guardrails is the ordered guardrail rule list. Order is significant:
// rules are ordered by specificity and risk of misclassification, so a
// narrow match (e.g. a national ID keyword) is never shadowed by a later,
// looser rule.
var Guardrails = []GuardrailRule{
	{
		Name:     "government-id",
		Domain:   domain.DomainGovernment,
		Category: "ID",
		Keywords: []string{"aadhaar", "pan card", "passport", "driving license", "voter id", "uidai"},
	},
	{
		Name:     "government-tax",
		Domain:   domain.DomainGovernment,
		Category: "Tax",
		Keywords: []string{"form 16", "itr-v", "income tax return", "computation of income"},
	},
	{
		Name:     "personal-identity",
		Domain:   domain.DomainPersonal,
		Category: "Identity",
		Keywords: []string{"curriculum vitae", "resume", "biodata"},
	},
	{
		Name:     "personal-bills",
		Domain:   domain.DomainPersonal,
		Category: "Bills",
		Keywords: []string{"electricity bill", "gas bill", "credit card statement"},
	},
	{
		Name:     "technology-uav",
		Domain:   domain.DomainTechnology,
		Category: "UAV",
		Keywords: []string{"uav", "drone", "quadcopter", "aerial", "hexacopter"},
	},
	{
		Name:     "technology-api",
		Domain:   domain.DomainTechnology,
		Category: "API",
		Keywords: []string{"openapi", "swagger", "graphql", "grpc", "raml", "api gateway", "rest api", "api documentation", "http method"},
	},
	{
		Name:     "technology-devops",
		Domain:   domain.DomainTechnology,
		Category: "DevOps",
		Keywords: []string{"docker", "kubernetes", "k8s", "jenkins", "terraform", "ansible", "helm", "github actions", "gitlab ci", "ci/cd"},
	},
	{
		Name:     "code-frontend",
		Domain:   domain.DomainCode,
		Category: "Frontend",
		Keywords: []string{"react", "jsx", "tsx", "nextjs", "<html", "<!doctype", "tailwind", "redux", "vue", "angular"},
	},
	{
		Name:     "code-backend",
		Domain:   domain.DomainCode,
		Category: "Backend",
		Keywords: []string{"express", "django", "flask", "fastapi", "spring boot", "server", "middleware", "controller"},
	},
	{
		Name:     "healthcare-lab-report",
		Domain:   domain.DomainHealthcare,
		Category: "LabReport",
		Keywords: []string{"pathology report", "blood test", "lipid profile", "cbc", "urine analysis"},
	},
	{
		Name:     "healthcare-clinical",
		Domain:   domain.DomainHealthcare,
		Category: "Clinical",
		Keywords: []string{"discharge summary", "opd paper", "prescription", "admission form"},
	},
	{
		Name:     "school-admin",
		Domain:   domain.DomainSchool,
		Category: "Admin",
		Keywords: []string{"leaving certificate", "bonafide", "transfer certificate", "result sheet", "report card"},
	},
	{
		Name:     "college-admin",
		Domain:   domain.DomainCollege,
		Category: "Admin",
		Keywords: []string{"transcript", "degree certificate", "provisional certificate", "migration certificate"},
	},
	{
		Name:     "company-product",
		Domain:   domain.DomainCompany,
		Category: "Product",
		Keywords: []string{"product requirements", "prd", "user story", "sprint backlog", "release notes"},
	},
	{
		Name:     "company-service",
		Domain:   domain.DomainCompany,
		Category: "Service",
		Keywords: []string{"statement of work", "sow", "service level agreement", "sla", "client proposal"},
	},
	{
		Name:     "finance-tax",
		Domain:   domain.DomainFinance,
		Category: "Tax",
		Keywords: []string{"gst", "tax invoice", "tax return"},
	},
	{
		Name:     "legal-contract",
		Domain:   domain.DomainLegal,
		Category: "Contract",
		Keywords: []string{"non-disclosure agreement", "nda", "consulting agreement", "employment agreement"},
	},
}
