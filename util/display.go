package util

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tranvictor/assoc/association"
	assoccommon "github.com/tranvictor/assoc/common"
	"github.com/tranvictor/assoc/engine"
	"github.com/tranvictor/assoc/signature"
	"github.com/tranvictor/assoc/ui"
	"github.com/tranvictor/assoc/util/addrbook"
)

// ── Build phase (pure: no UI side-effects) ──────────────────────────────────

// partyLabel marks the resolved address with the resolved name and labels
// every other party from the address book. Unknown parties are a caution.
func partyLabel(addr common.Address, self common.Address, selfName string, book addrbook.AddressResolver) ui.StyledText {
	if addr == self {
		return ui.Good(assoccommon.PlainAddress(assoccommon.NewAddress(addr, selfName)))
	}
	labelled := assoccommon.NewAddress(addr, "")
	if book != nil {
		labelled = book.Resolve(addr)
	}
	if labelled.Known() {
		return ui.Good(assoccommon.PlainAddress(labelled))
	}
	return ui.Caution(assoccommon.PlainAddress(labelled))
}

func role(a association.Association, self common.Address) string {
	switch {
	case a.InitiatorAddress == self && a.ApproverAddress == self:
		return "both"
	case a.InitiatorAddress == self:
		return "initiator"
	case a.ApproverAddress == self:
		return "approver"
	}
	return ""
}

func formatUnix(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

func statusOf(a association.Association, now time.Time) ui.StyledText {
	switch {
	case a.Stale(now):
		return ui.Caution("active (stale)")
	case a.IsActive:
		return ui.Good("active")
	}
	return ui.Bad("inactive")
}

// BuildVerificationDisplay turns a signature result into its view.
func BuildVerificationDisplay(a association.Association, res *signature.Result, book addrbook.AddressResolver) VerificationDisplay {
	d := VerificationDisplay{
		ID:             a.ID,
		DeclaredSigner: partyLabel(res.RecoveredSigner, common.Address{}, "", book),
		ExpectedSigner: partyLabel(res.ExpectedSigner, common.Address{}, "", book),
		Method:         string(res.Method),
	}
	if res.IsValid {
		d.Verdict = ui.Good("valid")
	} else {
		d.Verdict = ui.Bad("invalid")
	}
	return d
}

// BuildResolutionDisplay turns an engine result into its view. verified is
// keyed by position in the document and may be nil.
func BuildResolutionDisplay(res *engine.Result, book addrbook.AddressResolver, verified map[int]*signature.Result, now time.Time) *ResolutionDisplay {
	d := &ResolutionDisplay{
		Name:           res.Name,
		NormalizedName: res.NormalizedName,
	}
	var self common.Address
	if res.ForwardResolvedAddress != nil {
		self = *res.ForwardResolvedAddress
		d.Address = ui.Good(self.Hex())
	}
	if res.AssociationsURL != nil {
		d.URL = *res.AssociationsURL
	}
	if res.HasMatchingAssociation {
		d.Match = ui.Good("yes")
	} else {
		d.Match = ui.Bad("no")
	}
	if res.AssociationsData == nil {
		return d
	}

	for i, a := range res.AssociationsData.Associations {
		ad := AssociationDisplay{
			Index:     i,
			ID:        a.ID,
			Initiator: partyLabel(a.InitiatorAddress, self, res.NormalizedName, book),
			Approver:  partyLabel(a.ApproverAddress, self, res.NormalizedName, book),
			Role:      role(a, self),
			Status:    statusOf(a, now),
			ValidAt:   formatUnix(a.ValidAt),
		}
		if a.RevokedAt != nil {
			ad.RevokedAt = formatUnix(*a.RevokedAt)
		}
		if v, ok := verified[i]; ok && v != nil {
			verdict := BuildVerificationDisplay(a, v, book).Verdict
			ad.Verification = &verdict
		}
		if a.Stale(now) {
			d.Warnings = append(d.Warnings, fmt.Sprintf(
				"association %d is marked active but its timestamps say otherwise (validAt %s, revokedAt %s)",
				a.ID, ad.ValidAt, orDash(ad.RevokedAt)))
		}
		d.Associations = append(d.Associations, ad)
	}
	return d
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// ── Print phase (reads only from the display struct, colours via u.Style) ────

func PrintResolutionDisplay(u ui.UI, d *ResolutionDisplay) {
	u.Section(d.Name)
	u.KeyValue([][2]string{
		{"Normalized", d.NormalizedName},
		{"Address", u.Style(d.Address)},
		{"Associations URL", d.URL},
		{"Matching association", u.Style(d.Match)},
	})

	if len(d.Associations) == 0 {
		u.Info("The document lists no associations.")
		return
	}

	withVerdicts := false
	for _, a := range d.Associations {
		if a.Verification != nil {
			withVerdicts = true
		}
	}
	headers := []string{"#", "ID", "Initiator", "Approver", "Role", "Status", "Valid at", "Revoked at"}
	if withVerdicts {
		headers = append(headers, "Signature")
	}
	rows := make([][]string, 0, len(d.Associations))
	for _, a := range d.Associations {
		row := []string{
			fmt.Sprintf("%d", a.Index+1),
			fmt.Sprintf("%d", a.ID),
			u.Style(a.Initiator),
			u.Style(a.Approver),
			orDash(a.Role),
			u.Style(a.Status),
			a.ValidAt,
			orDash(a.RevokedAt),
		}
		if withVerdicts {
			verdict := "-"
			if a.Verification != nil {
				verdict = u.Style(*a.Verification)
			}
			row = append(row, verdict)
		}
		rows = append(rows, row)
	}
	u.Table(headers, rows)

	for _, w := range d.Warnings {
		u.Warn("%s", w)
	}
}

func PrintVerificationDisplay(u ui.UI, d VerificationDisplay) {
	u.Section(fmt.Sprintf("Signature of association %d", d.ID))
	rows := [][2]string{
		{"Result", u.Style(d.Verdict)},
		{"Declared signer", u.Style(d.DeclaredSigner)},
		{"Expected signer", u.Style(d.ExpectedSigner)},
	}
	if d.Method != "" {
		rows = append(rows, [2]string{"Checked by", d.Method})
	}
	u.KeyValue(rows)
}
