package association

import "github.com/ethereum/go-ethereum/common"

// HasMatch is true iff some association names addr as initiator or approver.
// Addresses compare as 20-byte values, so hex casing in the document does not
// matter.
func HasMatch(doc *Document, addr common.Address) bool {
	if doc == nil {
		return false
	}
	for _, a := range doc.Associations {
		if a.Involves(addr) {
			return true
		}
	}
	return false
}

// Matching returns the associations involving addr in document order.
func Matching(doc *Document, addr common.Address) []Association {
	if doc == nil {
		return nil
	}
	var result []Association
	for _, a := range doc.Associations {
		if a.Involves(addr) {
			result = append(result, a)
		}
	}
	return result
}
