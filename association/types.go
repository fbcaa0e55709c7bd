package association

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Association is one signed claim binding an initiator and an approver.
// Every field is passed through from the document untouched; IsActive in
// particular is never recomputed here.
type Association struct {
	ID                 int64          `json:"id"`
	InitiatorAddress   common.Address `json:"initiatorAddress"`
	ApproverAddress    common.Address `json:"approverAddress"`
	InitiatorBytes     string         `json:"initiatorBytes"`
	ApproverBytes      string         `json:"approverBytes"`
	InterfaceID        string         `json:"interfaceId"`
	Data               string         `json:"data"`
	ValidAt            int64          `json:"validAt" validate:"gte=0"`
	RevokedAt          *int64         `json:"revokedAt"`
	InitiatorSignature string         `json:"initiatorSignature"`
	CreatedAt          string         `json:"createdAt"`
	IsActive           bool           `json:"isActive"`
}

type Account struct {
	Address   common.Address `json:"address"`
	CreatedAt string         `json:"createdAt"`
}

// Document is the JSON published at a name's associations-url.
type Document struct {
	Account      Account       `json:"account"`
	Associations []Association `json:"associations"`
}

// wireAssociation is an association as read off the wire. The parties are
// pointers so a missing key is told apart from the zero address.
type wireAssociation struct {
	Association
	InitiatorAddress *common.Address `json:"initiatorAddress" validate:"required"`
	ApproverAddress  *common.Address `json:"approverAddress" validate:"required"`
}

func (w wireAssociation) association() Association {
	a := w.Association
	a.InitiatorAddress = *w.InitiatorAddress
	a.ApproverAddress = *w.ApproverAddress
	return a
}

type wireDocument struct {
	Account      Account           `json:"account"`
	Associations []wireAssociation `json:"associations" validate:"required,dive"`
}

// Involves reports whether addr is the initiator or the approver.
func (a Association) Involves(addr common.Address) bool {
	return a.InitiatorAddress == addr || a.ApproverAddress == addr
}

// Stale reports an association the document marks active although its own
// timestamps say otherwise at now: revoked already, or not valid yet.
func (a Association) Stale(now time.Time) bool {
	if !a.IsActive {
		return false
	}
	if a.RevokedAt != nil && *a.RevokedAt <= now.Unix() {
		return true
	}
	return a.ValidAt > now.Unix()
}

// Find returns the first association with the given id.
func (d *Document) Find(id int64) (Association, bool) {
	if d == nil {
		return Association{}, false
	}
	for _, a := range d.Associations {
		if a.ID == id {
			return a, true
		}
	}
	return Association{}, false
}
