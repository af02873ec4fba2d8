package domain

// Vector store metadata keys. Every chunk added to the index (spec §4.4)
// carries these so the query pipeline can RBAC-filter and whole-file-bypass
// without a round trip through the document store for every candidate.
const (
	MetaKeyDocumentID = "document_id"
	MetaKeyFilename   = "filename"
	MetaKeyDomain     = "domain"
	MetaKeyCategory   = "category"
	MetaKeyChunkIndex = "chunk_index"
)
