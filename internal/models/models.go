package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin Role = "Admin"
	RoleStaff Role = "Staff"
)

// Designation is a staff job title. Each designation carries a default
// permission set that applies when the user's own flag is not granted.
type Designation string

const (
	DesignationReceivingOfficer  Designation = "Document Receiving Officer"
	DesignationPOCoordinator     Designation = "PO Issuance Coordinator"
	DesignationPreAudit          Designation = "Pre-Audit Specialist"
	DesignationPaymentIndex      Designation = "Payment Index Analyst"
	DesignationJournalEntryClerk Designation = "Journal Entry Clerk"
	DesignationBIRTaxOfficer     Designation = "BIR Tax Certificate Officer"
	DesignationAccountant        Designation = "Accountant"
)

// Designations lists every valid designation in display order.
var Designations = []Designation{
	DesignationReceivingOfficer,
	DesignationPOCoordinator,
	DesignationPreAudit,
	DesignationPaymentIndex,
	DesignationJournalEntryClerk,
	DesignationBIRTaxOfficer,
	DesignationAccountant,
}

func (d Designation) Valid() bool {
	for _, known := range Designations {
		if d == known {
			return true
		}
	}
	return false
}

type Permission string

const (
	PermissionView   Permission = "view"
	PermissionUpload Permission = "upload"
	PermissionEdit   Permission = "edit"
	PermissionDelete Permission = "delete"
)

var Permissions = []Permission{PermissionView, PermissionUpload, PermissionEdit, PermissionDelete}

func (p Permission) Valid() bool {
	switch p {
	case PermissionView, PermissionUpload, PermissionEdit, PermissionDelete:
		return true
	}
	return false
}

type PermissionSet struct {
	View   bool `bson:"view" json:"view"`
	Upload bool `bson:"upload" json:"upload"`
	Edit   bool `bson:"edit" json:"edit"`
	Delete bool `bson:"delete" json:"delete"`
}

// Allows reports whether the set grants p. Unknown permissions are never granted.
func (s PermissionSet) Allows(p Permission) bool {
	switch p {
	case PermissionView:
		return s.View
	case PermissionUpload:
		return s.Upload
	case PermissionEdit:
		return s.Edit
	case PermissionDelete:
		return s.Delete
	}
	return false
}

type DesignationPermissions map[Designation]PermissionSet

type User struct {
	ID                     primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Fullname               string                 `bson:"fullname" json:"fullname"`
	Username               string                 `bson:"username" json:"username"`
	PasswordHash           string                 `bson:"password" json:"-"`
	Role                   Role                   `bson:"role" json:"role"`
	Designation            Designation            `bson:"designation" json:"designation"`
	Permissions            PermissionSet          `bson:"permissions" json:"permissions"`
	DesignationPermissions DesignationPermissions `bson:"designationPermissions,omitempty" json:"designationPermissions,omitempty"`
	CreatedAt              time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time              `bson:"updatedAt" json:"updatedAt"`
}

// Document is one stored file together with its searchable metadata.
type Document struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DocumentTitle  string             `bson:"documentTitle" json:"documentTitle"`
	Category       string             `bson:"category" json:"category"`
	DocumentType   string             `bson:"documentType" json:"documentType"`
	OriginalName   string             `bson:"originalName" json:"originalName"`
	StoredFilename string             `bson:"filename" json:"filename"`
	EntryID        string             `bson:"entryId" json:"entryId"`
	UploadDate     time.Time          `bson:"uploadDate" json:"uploadDate"`
	SubmissionDate time.Time          `bson:"submissionDate" json:"submissionDate"`
	PreparedBy     string             `bson:"preparedBy" json:"preparedBy"`
	Description    string             `bson:"description" json:"description"`
	StoragePath    string             `bson:"path" json:"-"`
	ExtractedText  string             `bson:"extractedText" json:"-"`
	UploaderID     primitive.ObjectID `bson:"uploader" json:"uploader"`
}

// DocumentSummary is the trimmed view used by category listings.
type DocumentSummary struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	DocumentTitle  string             `bson:"documentTitle" json:"documentTitle"`
	StoredFilename string             `bson:"filename" json:"filename"`
	DocumentType   string             `bson:"documentType" json:"documentType"`
	UploadDate     time.Time          `bson:"uploadDate" json:"uploadDate"`
	PreparedBy     string             `bson:"preparedBy" json:"preparedBy"`
	UploaderID     primitive.ObjectID `bson:"uploader" json:"uploader"`
}

type Reminder struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DocumentID     primitive.ObjectID `bson:"documentId" json:"documentId"`
	DocumentTitle  string             `bson:"documentTitle" json:"documentTitle"`
	Category       string             `bson:"category,omitempty" json:"category,omitempty"`
	DocumentType   string             `bson:"documentType,omitempty" json:"documentType,omitempty"`
	PreparedBy     string             `bson:"preparedBy,omitempty" json:"preparedBy,omitempty"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	SubmissionDate time.Time          `bson:"submissionDate" json:"submissionDate"`
	IsCompleted    bool               `bson:"isCompleted" json:"isCompleted"`
	IsDeleted      bool               `bson:"isDeleted" json:"isDeleted"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// ReminderSync carries the document fields mirrored onto its reminders.
type ReminderSync struct {
	DocumentTitle  string    `bson:"documentTitle" json:"documentTitle"`
	Category       string    `bson:"category" json:"category"`
	DocumentType   string    `bson:"documentType" json:"documentType"`
	PreparedBy     string    `bson:"preparedBy" json:"preparedBy"`
	SubmissionDate time.Time `bson:"submissionDate" json:"submissionDate"`
	Description    string    `bson:"description" json:"description"`
}

// SyncFrom builds the reminder mirror of d.
func SyncFrom(d *Document) ReminderSync {
	return ReminderSync{
		DocumentTitle:  d.DocumentTitle,
		Category:       d.Category,
		DocumentType:   d.DocumentType,
		PreparedBy:     d.PreparedBy,
		SubmissionDate: d.SubmissionDate,
		Description:    d.Description,
	}
}
