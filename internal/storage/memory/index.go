package memory

// signatureIndex maps a gesture signature to the session IDs created for
// it, in creation order. Matching wants the newest candidate first, so
// lookups walk the list back to front.
//
// All methods assume the caller holds the store lock.
type signatureIndex struct {
	bySignature map[string][]string
}

func newSignatureIndex() *signatureIndex {
	return &signatureIndex{
		bySignature: make(map[string][]string),
	}
}

// add appends a session ID under its signature.
func (i *signatureIndex) add(signature, sessionID string) {
	i.bySignature[signature] = append(i.bySignature[signature], sessionID)
}

// remove deletes one session ID from its signature list.
func (i *signatureIndex) remove(signature, sessionID string) {
	ids := i.bySignature[signature]
	for n, id := range ids {
		if id == sessionID {
			ids = append(ids[:n], ids[n+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(i.bySignature, signature)
		return
	}
	i.bySignature[signature] = ids
}

// newestFirst returns the session IDs for a signature, newest creation
// first. The returned slice is a copy.
func (i *signatureIndex) newestFirst(signature string) []string {
	ids := i.bySignature[signature]
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for n, id := range ids {
		out[len(ids)-1-n] = id
	}
	return out
}

// count returns the number of sessions indexed under a signature.
func (i *signatureIndex) count(signature string) int {
	return len(i.bySignature[signature])
}
