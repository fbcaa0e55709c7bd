package util

import "github.com/tranvictor/assoc/ui"

// AssociationDisplay is the view of one association. Styled fields marshal
// as plain strings.
type AssociationDisplay struct {
	Index        int            `json:"index"`
	ID           int64          `json:"id"`
	Initiator    ui.StyledText  `json:"initiator"`
	Approver     ui.StyledText  `json:"approver"`
	Role         string         `json:"role,omitempty"`
	Status       ui.StyledText  `json:"status"`
	ValidAt      string         `json:"validAt"`
	RevokedAt    string         `json:"revokedAt,omitempty"`
	Verification *ui.StyledText `json:"verification,omitempty"`
}

// ResolutionDisplay is the view of an engine result.
type ResolutionDisplay struct {
	Name           string               `json:"name"`
	NormalizedName string               `json:"normalizedName"`
	Address        ui.StyledText        `json:"address"`
	URL            string               `json:"associationsUrl"`
	Match          ui.StyledText        `json:"match"`
	Associations   []AssociationDisplay `json:"associations"`
	Warnings       []string             `json:"warnings,omitempty"`
}

// VerificationDisplay is the view of one signature check.
type VerificationDisplay struct {
	ID             int64         `json:"id"`
	Verdict        ui.StyledText `json:"verdict"`
	DeclaredSigner ui.StyledText `json:"declaredSigner"`
	ExpectedSigner ui.StyledText `json:"expectedSigner"`
	Method         string        `json:"method,omitempty"`
}
