package domain

import "fmt"

// DocumentType is the identity document category a traveler can supply.
type DocumentType string

const (
	DocPassport        DocumentType = "passport"
	DocIDCard          DocumentType = "id_card"
	DocResidencePermit DocumentType = "residence_permit"
	DocDriversLicense  DocumentType = "drivers_license"
)

var documentTypeNames = map[DocumentType]string{
	DocPassport:        "Passport",
	DocIDCard:          "National ID Card",
	DocResidencePermit: "Residence Permit",
	DocDriversLicense:  "Driver's License",
}

// DisplayName returns the human-readable document type name used in
// admin notification emails. Unknown types fall through unchanged.
func (t DocumentType) DisplayName() string {
	if name, ok := documentTypeNames[t]; ok {
		return name
	}
	return string(t)
}

// Traveler is one person on a booking who must supply an identity document.
type Traveler struct {
	Name           string       `json:"name"`
	DocumentType   DocumentType `json:"documentType"`
	DocumentNumber string       `json:"documentNumber"`
}

// FileMetadata links one uploaded file to a traveler by position.
type FileMetadata struct {
	TravelerIndex  int          `json:"travelerIndex"`
	TravelerName   string       `json:"travelerName"`
	DocumentType   DocumentType `json:"documentType"`
	DocumentNumber string       `json:"documentNumber"`
}

// UploadedFile is one document held fully in memory for the duration of a
// single upload request. Files are never written to disk or a database;
// they exist only as email attachment payloads.
type UploadedFile struct {
	OriginalName   string
	Content        []byte
	Size           int64
	ContentType    string
	TravelerName   string
	DocumentType   DocumentType
	DocumentNumber string
}

// AttachmentName builds the admin-facing attachment filename:
// "<traveler> - <DocType> (<number>) - <original>".
func (f *UploadedFile) AttachmentName() string {
	if f.DocumentNumber != "" {
		return fmt.Sprintf("%s - %s (%s) - %s", f.TravelerName, f.DocumentType.DisplayName(), f.DocumentNumber, f.OriginalName)
	}
	return fmt.Sprintf("%s - %s - %s", f.TravelerName, f.DocumentType.DisplayName(), f.OriginalName)
}

// UploadRequest is a guest's full document submission.
type UploadRequest struct {
	BookingID  string
	GuestName  string
	GuestEmail string
	Travelers  []Traveler
	Files      []UploadedFile
}

// UploadedFileInfo is the per-file summary echoed back to the guest.
type UploadedFileInfo struct {
	OriginalName   string       `json:"originalName"`
	Size           int64        `json:"size"`
	Type           string       `json:"type"`
	TravelerName   string       `json:"travelerName"`
	DocumentType   DocumentType `json:"documentType"`
	DocumentNumber string       `json:"documentNumber"`
}
