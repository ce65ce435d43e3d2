package models

import "github.com/samber/lo"

// JobType classifies the engagement offered by a job.
type JobType string

const (
	JobTypeFullTime JobType = "Full-time"
	JobTypePartTime JobType = "Part-time"
	JobTypeContract JobType = "Contract"
	JobTypeRemote   JobType = "Remote"
)

// JobStatus controls whether a job is visible to applicants.
type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
	JobStatusDraft  JobStatus = "draft"
)

// ApplicationStatus tracks an application through review.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationReviewed ApplicationStatus = "reviewed"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// UserRole is informational only; every authenticated caller is treated as admin.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleEmployer UserRole = "employer"
	RoleUser     UserRole = "user"
)

// InquiryStatus is the triage state of an employer inquiry.
type InquiryStatus string

const (
	InquiryNew        InquiryStatus = "new"
	InquiryInProgress InquiryStatus = "in_progress"
	InquiryResolved   InquiryStatus = "resolved"
	InquiryClosed     InquiryStatus = "closed"
)

// InquiryPriority ranks employer inquiries for the admin queue.
type InquiryPriority string

const (
	PriorityLow    InquiryPriority = "low"
	PriorityMedium InquiryPriority = "medium"
	PriorityHigh   InquiryPriority = "high"
	PriorityUrgent InquiryPriority = "urgent"
)

// DocumentType names a supporting document an applicant may attach.
type DocumentType string

const (
	DocCV                      DocumentType = "cv"
	DocPassport                DocumentType = "passport"
	DocBirthCertificate        DocumentType = "birth_certificate"
	DocKCSECertificate         DocumentType = "kcse_certificate"
	DocKCPECertificate         DocumentType = "kcpe_certificate"
	DocGoodConduct             DocumentType = "certificate_of_good_conduct"
	DocAcademicTranscripts     DocumentType = "academic_transcripts"
	DocProfessionalCertificate DocumentType = "professional_certificate"
	DocWorkPermit              DocumentType = "work_permit"
	DocPoliceClearance         DocumentType = "police_clearance"
	DocMedicalCertificate      DocumentType = "medical_certificate"
	DocOther                   DocumentType = "other"
)

var (
	JobTypes            = []string{string(JobTypeFullTime), string(JobTypePartTime), string(JobTypeContract), string(JobTypeRemote)}
	JobStatuses         = []string{string(JobStatusActive), string(JobStatusClosed), string(JobStatusDraft)}
	ApplicationStatuses = []string{string(ApplicationPending), string(ApplicationReviewed), string(ApplicationAccepted), string(ApplicationRejected)}
	InquiryStatuses     = []string{string(InquiryNew), string(InquiryInProgress), string(InquiryResolved), string(InquiryClosed)}
	InquiryPriorities   = []string{string(PriorityLow), string(PriorityMedium), string(PriorityHigh), string(PriorityUrgent)}
	DocumentTypes       = []string{
		string(DocCV), string(DocPassport), string(DocBirthCertificate), string(DocKCSECertificate),
		string(DocKCPECertificate), string(DocGoodConduct), string(DocAcademicTranscripts),
		string(DocProfessionalCertificate), string(DocWorkPermit), string(DocPoliceClearance),
		string(DocMedicalCertificate), string(DocOther),
	}
)

func (t JobType) Valid() bool           { return lo.Contains(JobTypes, string(t)) }
func (s JobStatus) Valid() bool         { return lo.Contains(JobStatuses, string(s)) }
func (s ApplicationStatus) Valid() bool { return lo.Contains(ApplicationStatuses, string(s)) }
func (s InquiryStatus) Valid() bool     { return lo.Contains(InquiryStatuses, string(s)) }
func (p InquiryPriority) Valid() bool   { return lo.Contains(InquiryPriorities, string(p)) }
func (d DocumentType) Valid() bool      { return lo.Contains(DocumentTypes, string(d)) }

// Rank orders priorities for the triage queue; unknown values sort last.
func (p InquiryPriority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}
