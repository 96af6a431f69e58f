package memory

import (
	"testing"

	"github.com/DataScyther/Neeva-AI-sub000/internal/docstore"
	"github.com/DataScyther/Neeva-AI-sub000/internal/docstore/docstoretest"
)

func TestMemoryStore_Compliance(t *testing.T) {
	docstoretest.Run(t, func(t *testing.T) docstore.Store { return New() })
}
