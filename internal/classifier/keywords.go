package classifier

import "github.com/custodia-labs/sercha-core/internal/core/domain"

// CategoryEntry is the keyword set scored against a single category within
// a domain (spec §4.2 step 4). Categories are an ordered slice, not a map,
// so tie-breaks fall back to stable insertion order as spec.md requires.
type CategoryEntry struct {
	Name     string
	Keywords []string
}

// DomainLexicon is the keyword set scored against a whole domain (spec
// §4.2 step 3), plus the categories considered once that domain wins.
type DomainLexicon struct {
	Strong     []string
	Weak       []string
	Categories []CategoryEntry
}

// domainOrder fixes the insertion/tie-break order the scorer walks,
// matching domain.AllDomains().
var domainOrder = domain.AllDomains()

// Lexicon is the 14-domain keyword table the keyword scorer walks. Encoded
// as declarative data (per spec.md §9's design note) rather than branching
// code, so new domains/categories are additions here, not new logic.
var Lexicon = map[string]DomainLexicon{
	domain.DomainTechnology: {
		Strong: []string{"uav", "drone", "robot", "robotics", "unmanned", "quadcopter", "hexacopter", "flight",
			"web application", "website", "web development", "web design",
			"cloud computing", "cloud infrastructure", "devops", "docker", "kubernetes",
			"aws", "azure", "gcp", "cloud platform", "serverless",
			"database architecture", "data warehouse", "nosql", "mongodb", "postgres", "mysql", "redis", "elasticsearch",
			"api architecture", "rest api", "api design", "api development",
			"infrastructure", "infrastructure as code", "terraform", "ansible",
			"ssl", "tls", "ssl certificate", "tls certificate", "encryption", "authentication protocol", "authorization",
			"cipher", "cryptography", "symmetric", "asymmetric", "decryption", "hashing", "aes", "rsa", "sha",
			"git workflow", "version control system", "ci/cd pipeline", "jenkins", "gitlab ci", "github actions",
			"iot", "iot device", "sensor", "edge computing", "embedded system",
			"network", "networking", "firewall", "proxy", "load balancer",
			"deployment", "containerization", "microservice architecture"},
		Weak: []string{"tech", "technology", "system", "platform", "solution", "tool", "hardware"},
		Categories: []CategoryEntry{
			{Name: "UAV", Keywords: []string{"uav", "drone", "unmanned aerial", "unmanned", "quadcopter", "hexacopter", "flight"}},
			{Name: "Web", Keywords: []string{"web", "website", "web app", "web application", "web development", "full stack"}},
			{Name: "Database", Keywords: []string{"database", "sql", "nosql", "mongodb", "postgres", "mysql", "redis"}},
			{Name: "API", Keywords: []string{"api", "endpoint", "rest", "graphql", "grpc", "swagger", "openapi"}},
			{Name: "DevOps", Keywords: []string{"docker", "kubernetes", "ci/cd", "jenkins", "terraform", "ansible", "cloud"}},
			{Name: "AI", Keywords: []string{"artificial intelligence", "ai", "machine learning", "deep learning", "llm", "neural network"}},
			{Name: "Security", Keywords: []string{"security", "encryption", "ssl", "tls", "auth", "firewall", "cyber", "cipher", "crypto", "aes", "rsa"}},
			{Name: "Mobile", Keywords: []string{"mobile", "ios", "android", "flutter", "react native", "app"}},
		},
	},
	domain.DomainCode: {
		Strong: []string{"backend development", "backend code", "backend service", "api development",
			"api endpoint", "rest api", "rest architecture", "graphql", "grpc",
			"nodejs", "express", "django", "flask", "fastapi", "spring", "java",
			"react", "vue", "angular", "frontend development", "frontend code",
			"jsx", "tsx", "html", "css", "javascript", "typescript",
			"algorithm", "data structure", "sorting", "searching", "recursion",
			"unit test", "integration test", "testing", "test case",
			"database", "sql", "nosql", "orm", "query", "schema",
			"function", "method", "class", "object", "async", "await",
			"authentication", "authorization", "middleware", "error handling",
			"array", "list", "dictionary", "set", "tuple", "hash",
			"tree", "graph", "binary", "traversal", "bfs", "dfs",
			"refactor", "optimize", "debug", "logging", "cache",
			"time complexity", "space complexity", "big o", "dynamic programming",
			"inheritance", "polymorphism", "encapsulation", "abstraction",
			"decorator", "closure", "lambda", "functional programming",
			"swagger", "openapi", "documentation", "code review", "test driven"},
		Weak: []string{"code", "programming", "script", "logic", "development", "source"},
		Categories: []CategoryEntry{
			{Name: "Backend", Keywords: []string{"backend", "server", "api", "database", "express", "django", "flask", "spring", "sql"}},
			{Name: "Frontend", Keywords: []string{"frontend", "ui", "react", "vue", "angular", "html", "css", "component"}},
			{Name: "Algorithm", Keywords: []string{"algorithm", "data structure", "sorting", "searching", "graph", "tree"}},
			{Name: "Testing", Keywords: []string{"test", "unit test", "integration test", "jest", "pytest", "coverage"}},
		},
	},
	domain.DomainFinance: {
		Strong: []string{"revenue", "profit", "loss", "cost", "budget", "budgeting", "forecast", "forecasting",
			"investment", "roi", "return on investment", "financial", "accounting", "bookkeeping",
			"balance sheet", "income statement", "cash flow", "statement of cash flows", "fiscal",
			"audit", "auditor", "auditing", "stock", "equity", "dividend", "dividend yield",
			"payroll", "salary", "wage", "compensation", "benefits", "deduction", "withholding",
			"expense", "expense report", "reimbursement", "invoice", "receipt",
			"tax", "taxation", "tax return", "irs", "deduction", "filing", "deadline",
			"depreciation", "amortization", "asset", "liability", "net worth", "equity",
			"capital", "capital expenditure", "operating expense", "opex", "capex",
			"maintenance", "maintenance cost", "repair", "repair cost", "upkeep",
			"accounting standard", "gaap", "ifrs", "fasb", "sec", "sarbanes oxley",
			"quarterly", "annual", "fiscal year", "reporting period", "financial statement"},
		Weak: []string{"money", "business", "financial", "payment", "transaction", "account", "ledger"},
		Categories: []CategoryEntry{
			{Name: "Accounting", Keywords: []string{"accounting", "ledger", "audit", "balance sheet", "p&l"}},
			{Name: "Payroll", Keywords: []string{"payroll", "salary", "wage", "slip", "compensation"}},
			{Name: "Tax", Keywords: []string{"tax", "gst", "itr", "return", "filing"}},
			{Name: "Investment", Keywords: []string{"investment", "stock", "portfolio", "mutual fund", "equity"}},
		},
	},
	domain.DomainEducation: {
		Strong: []string{"course", "curriculum", "lesson", "module", "unit", "chapter", "section",
			"assignment", "homework", "worksheet", "exercise", "problem", "question",
			"quiz", "exam", "test", "assessment", "evaluation", "grading", "grade",
			"solution", "answer", "explanation", "tutorial", "guide", "handbook",
			"learning objective", "learning outcome", "prerequisite", "syllabus",
			"lecture", "classroom", "seminar", "workshop", "lab", "laboratory",
			"teaching", "instruction", "pedagogy", "didactic", "educational", "academic",
			"student", "learner", "pupil", "scholar", "teacher", "instructor", "professor",
			"school", "university", "college", "academy", "institute", "institution",
			"semester", "quarter", "year", "academic year", "school year", "term",
			"grade level", "elementary", "middle school", "high school", "secondary",
			"python course", "programming course", "math course", "science course",
			"numpy", "pandas", "matplotlib", "seaborn", "plotly", "sklearn", "scikit-learn",
			"tensorflow", "keras", "pytorch", "torch", "deep learning", "machine learning",
			"neural network", "cnn", "rnn", "lstm", "transformer", "model", "training",
			"dataset", "data", "analysis", "statistics", "statistical", "probability",
			"supervised learning", "unsupervised learning", "reinforcement learning",
			"classification", "regression", "clustering", "dimensionality reduction",
			"feature engineering", "feature selection", "preprocessing", "normalization",
			"training", "testing", "validation", "train test split", "cross validation",
			"accuracy", "precision", "recall", "f1 score", "roc", "auc", "confusion matrix",
			"optimization", "gradient descent", "backpropagation", "loss function",
			"hyperparameter", "tuning", "grid search", "random search", "bayesian optimization"},
		Weak: []string{"educational", "study", "learn", "learning", "knowledge", "skill", "training"},
		Categories: []CategoryEntry{
			{Name: "Programming", Keywords: []string{"programming", "python", "java", "code", "development"}},
			{Name: "Mathematics", Keywords: []string{"math", "algebra", "calculus", "statistics", "geometry"}},
			{Name: "Science", Keywords: []string{"physics", "chemistry", "biology", "science"}},
			{Name: "DataScience", Keywords: []string{"data science", "ml", "analysis", "pandas", "numpy"}},
		},
	},
	domain.DomainCollege: {
		Strong: []string{"university", "college", "campus", "dormitory", "dorm", "residence hall",
			"tuition", "fee", "scholarship", "grant", "financial aid", "loan", "student loan",
			"degree", "bachelor", "master", "phd", "doctorate", "major", "minor", "specialization",
			"gpa", "grade point average", "transcript", "diploma", "convocation",
			"alumni", "alumnus", "alumna", "graduate", "commencement", "graduation",
			"fraternity", "sorority", "greek life", "greek organization", "pledge",
			"club", "organization", "student organization", "student group",
			"student government", "senate", "council", "board", "president",
			"registration", "course registration", "add drop", "course schedule",
			"professor", "instructor", "faculty", "staff", "administrator", "dean",
			"campus life", "student life", "residential life", "internship", "placement", "recruiting"},
		Weak: []string{"college", "university", "student", "campus", "academic"},
		Categories: []CategoryEntry{
			{Name: "Admin", Keywords: []string{"transcript", "degree", "certificate", "bonafide", "fee receipt"}},
			{Name: "Placement", Keywords: []string{"placement", "internship", "job offer", "recruiting", "campus drive"}},
			{Name: "Academic", Keywords: []string{"course", "syllabus", "project", "assignment", "thesis"}},
			{Name: "Clubs", Keywords: []string{"club", "event", "fest", "competition", "workshop"}},
		},
	},
	domain.DomainSchool: {
		Strong: []string{"elementary", "elementary school", "middle school", "high school", "secondary",
			"k-12", "k12", "public school", "private school", "charter school",
			"grade", "grade level", "grade 1", "grade 10", "grade 12",
			"classroom", "class", "period", "lunch period", "recess",
			"teacher", "principal", "staff", "counselor", "nurse", "aide", "administrator",
			"report card", "progress report", "behavior", "discipline", "detention",
			"assignment", "homework", "worksheet", "project", "presentation", "poster",
			"exam", "test", "quiz", "mid-term", "final exam", "board exam",
			"schedule", "timetable", "class schedule", "bell schedule", "calendar",
			"parent", "guardian", "parent teacher conference", "ptc", "pta", "pto",
			"activity", "club", "sports", "athletics", "team", "game", "tournament",
			"field trip", "assembly", "pep rally", "graduation", "commencement",
			"bonafide certificate", "leaving certificate", "transfer certificate", "lc", "tc"},
		Weak: []string{"school", "education", "student", "learning", "teaching"},
		Categories: []CategoryEntry{
			{Name: "Admin", Keywords: []string{"report card", "result", "leaving certificate", "bonafide", "calendar"}},
			{Name: "Academic", Keywords: []string{"homework", "worksheet", "assignment", "exam", "quiz"}},
			{Name: "Events", Keywords: []string{"annual day", "sports day", "field trip", "picnic"}},
		},
	},
	domain.DomainCompany: {
		Strong: []string{"employee", "staff", "team", "department", "division", "unit",
			"project", "initiative", "program", "campaign", "strategy",
			"budget", "budgeting", "forecast", "planning", "deadline", "timeline",
			"product", "product line", "product development", "roadmap", "feature",
			"service", "service offering", "service delivery", "consulting",
			"client", "customer", "vendor", "partner", "stakeholder", "supplier",
			"human resources", "hr", "recruitment", "hiring", "onboarding", "offer letter",
			"payroll", "compensation", "salary", "bonus", "incentive", "appraisal",
			"meeting", "standup", "sync", "all hands", "town hall", "minutes of meeting", "mom",
			"presentation", "pitch", "demo", "prototype", "mockup", "wireframe",
			"quarterly", "q1", "q2", "q3", "q4", "fiscal quarter",
			"annual", "annual report", "earnings", "revenue", "profit",
			"performance", "kpi", "key performance indicator", "okr",
			"review", "performance review", "feedback", "evaluation",
			"office", "workspace", "remote", "hybrid", "wfh", "work from home",
			"company culture", "values", "mission", "vision", "policy",
			"business plan", "business model", "sales", "marketing",
			"statement of work", "sow", "sla", "service level agreement",
			"proposal", "contract", "nda", "non-disclosure"},
		Weak: []string{"company", "work", "business", "job", "employment", "professional"},
		Categories: []CategoryEntry{
			{Name: "Product", Keywords: []string{"prd", "product", "requirements", "roadmap", "user story", "backlog"}},
			{Name: "Service", Keywords: []string{"sow", "proposal", "agreement", "sla", "deliverable", "contract"}},
			{Name: "HR", Keywords: []string{"offer letter", "appointment letter", "appraisal", "policy", "handbook"}},
			{Name: "Legal", Keywords: []string{"nda", "non-disclosure", "contract", "partnership"}},
			{Name: "Finance", Keywords: []string{"invoice", "quote", "po", "purchase order", "budget"}},
		},
	},
	domain.DomainHealthcare: {
		Strong: []string{"patient", "medical", "medicine", "physician", "doctor", "healthcare",
			"hospital", "clinic", "medical center", "nursing home", "urgent care", "emergency", "icu",
			"diagnosis", "diagnostic", "symptom", "treatment", "therapy", "clinical",
			"prescription", "medication", "pharmaceutical", "drug", "vaccine",
			"disease", "illness", "condition", "disorder", "syndrome",
			"vital signs", "blood pressure", "heart rate", "temperature",
			"surgery", "surgical", "operation", "anesthesia", "recovery",
			"radiology", "x-ray", "ct scan", "mri", "ultrasound", "imaging",
			"laboratory", "lab test", "blood test", "pathology", "biopsy",
			"nursing", "nurse", "registered nurse", "discharge summary", "triage",
			"opd", "outpatient", "inpatient", "admission", "medical history",
			"insurance", "tpa", "claim", "cashless", "mediclaim",
			"dicom", "hl7", "emr", "ehr", "medical record"},
		Weak: []string{"health", "medicine", "doctor", "medical", "care", "hospital"},
		Categories: []CategoryEntry{
			{Name: "Clinical", Keywords: []string{"prescription", "discharge", "opd", "admission", "case paper"}},
			{Name: "LabReport", Keywords: []string{"report", "test result", "blood", "urine", "pathology"}},
			{Name: "Imaging", Keywords: []string{"x-ray", "mri", "abdo", "scan", "usg", "sonography"}},
			{Name: "Insurance", Keywords: []string{"claim", "insurance", "tpa", "approval", "cashless"}},
		},
	},
	domain.DomainLegal: {
		Strong: []string{"contract", "agreement", "lease agreement", "rent agreement",
			"clause", "section", "article", "amendment", "addendum",
			"party", "plaintiff", "defendant", "litigant", "attorney", "lawyer",
			"law", "legal", "statute", "regulation", "act", "bill",
			"copyright", "patent", "trademark", "intellectual property", "ip",
			"liability", "indemnity", "insurance", "coverage",
			"court", "lawsuit", "litigation", "legal action", "trial", "hearing",
			"jurisdiction", "venue", "arbitration", "mediation",
			"herein", "hereby", "whereas", "pursuant to", "in accordance with",
			"effective date", "termination", "breach", "default",
			"damages", "remedy", "injunction", "relief",
			"warrant", "warranty", "represent", "covenant",
			"affidavit", "power of attorney", "poa", "notary", "gazette"},
		Weak: []string{"legal", "law", "attorney", "rights", "rule"},
		Categories: []CategoryEntry{
			{Name: "Contract", Keywords: []string{"contract", "agreement", "mou", "nda"}},
			{Name: "Property", Keywords: []string{"lease", "deed", "sale", "rent"}},
			{Name: "Court", Keywords: []string{"order", "judgment", "petition", "notice"}},
		},
	},
	domain.DomainBusiness: {
		Strong: []string{"strategy", "strategic plan", "business model", "value proposition",
			"marketing", "marketing strategy", "advertising", "campaign",
			"sales", "sales strategy", "sales pipeline", "funnel",
			"customer", "customer experience", "crm", "customer retention",
			"market", "market share", "market analysis", "competitive analysis",
			"growth", "growth strategy", "expansion", "scaling",
			"operations", "operational", "supply chain", "logistics",
			"management", "leadership", "executive", "ceo", "cfo", "cto",
			"organization", "organizational structure", "restructuring",
			"planning", "objective", "goal", "milestone", "target",
			"innovation", "disruption", "startup", "venture", "fundraising"},
		Weak: []string{"business", "company", "plan", "goal", "strategy", "market"},
		Categories: []CategoryEntry{
			{Name: "Strategy", Keywords: []string{"strategy", "plan", "deck", "presentation"}},
			{Name: "Marketing", Keywords: []string{"campaign", "brochure", "flyer", "social media"}},
			{Name: "Sales", Keywords: []string{"pipeline", "lead", "proposal", "quote"}},
		},
	},
	domain.DomainResearchPaper: {
		Strong: []string{"abstract", "introduction", "methodology", "methods", "results", "discussion", "conclusion", "references",
			"research", "study", "analysis", "experiment", "experimental",
			"hypothesis", "hypothesis test", "statistical significance", "p-value",
			"data", "data analysis", "qualitative", "quantitative",
			"literature review", "related work", "citation", "cite", "bibliography",
			"author", "researcher", "academic", "scholar", "affiliation",
			"journal", "journal article", "peer review", "proceedings",
			"conference", "symposium", "workshop",
			"figure", "table", "graph", "chart", "diagram",
			"et al", "doi", "isbn", "issn", "arxiv"},
		Weak:       []string{"research", "paper", "academic", "study", "analysis", "thesis"},
		Categories: nil,
	},
	domain.DomainDocumentation: {
		Strong: []string{"## ", "# ", "api", "api documentation", "endpoint",
			"parameter", "parameters", "argument", "return value",
			"response", "response code", "response body", "status code",
			"schema", "json schema", "data model",
			"authentication", "authorization", "oauth", "api key", "token",
			"rest", "restful", "http method", "get", "post", "put", "delete",
			"swagger", "openapi", "raml", "api blueprint",
			"example", "usage example", "code snippet", "curl",
			"guide", "getting started", "quick start", "installation", "setup",
			"tutorial", "walkthrough", "step by step", "how to"},
		Weak:       []string{"help", "explain", "guide", "reference", "doc", "manual"},
		Categories: nil,
	},
	domain.DomainPersonal: {
		Strong: []string{"resume", "cv", "curriculum vitae", "biodata", "portfolio",
			"utility bill", "electricity bill", "water bill", "gas bill",
			"credit card statement", "bank statement", "passbook",
			"rent agreement", "lease", "maintenance bill",
			"receipt", "invoice", "warranty card", "guarantee",
			"insurance policy", "premium receipt", "nomination",
			"identity card", "id card", "visiting card",
			"medical report", "prescription", "vaccination certificate"},
		Weak: []string{"personal", "home", "bill", "statement", "receipt"},
		Categories: []CategoryEntry{
			{Name: "Identity", Keywords: []string{"resume", "cv", "biodata", "id proof", "address proof"}},
			{Name: "Bills", Keywords: []string{"electricity", "gas", "water", "bill", "maintenance"}},
			{Name: "Financial", Keywords: []string{"bank statement", "passbook", "credit card", "loan"}},
			{Name: "Housing", Keywords: []string{"rent agreement", "possession", "allotment", "deed"}},
		},
	},
	domain.DomainGovernment: {
		Strong: []string{"aadhaar", "uidai", "pan card", "income tax", "it department",
			"passport", "visa", "immigration",
			"driving license", "dl", "vehicle registration", "rc",
			"voter id", "election card", "epic",
			"ration card", "domicile", "caste certificate",
			"birth certificate", "death certificate", "marriage certificate",
			"form 16", "itr", "income tax return", "acknowledgement",
			"gazette", "notification", "circular", "gr", "government resolution",
			"affidavit", "stamp paper", "notary"},
		Weak: []string{"government", "govt", "official", "certificate", "id"},
		Categories: []CategoryEntry{
			{Name: "ID", Keywords: []string{"aadhaar", "pan", "passport", "license", "voter"}},
			{Name: "Tax", Keywords: []string{"itr", "form 16", "income tax", "acknowledgement"}},
			{Name: "Legal", Keywords: []string{"affidavit", "agreement", "power of attorney", "deed"}},
		},
	},
}
