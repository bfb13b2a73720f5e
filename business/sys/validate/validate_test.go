package validate_test

import (
	"testing"

	"github.com/ardanlabs/ledger/business/sys/validate"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

type registration struct {
	ID        string `json:"id" validate:"required,accountid"`
	PublicKey string `json:"public_key" validate:"required"`
	Balance   int64  `json:"balance" validate:"gte=0"`
}

func TestCheck(t *testing.T) {
	type table struct {
		name   string
		val    registration
		fields []string
	}

	tt := []table{
		{name: "valid", val: registration{ID: "alice", PublicKey: "pem", Balance: 100}},
		{name: "badid", val: registration{ID: "alice bob", PublicKey: "pem"}, fields: []string{"id"}},
		{name: "missing", val: registration{Balance: -1}, fields: []string{"id", "public_key", "balance"}},
	}

	t.Log("Given the need to validate request models.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s model.", testID, tst.name)
			{
				err := validate.Check(tst.val)
				if len(tst.fields) == 0 {
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould pass validation: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould pass validation.", success, testID)
					continue
				}

				if !validate.IsFieldErrors(err) {
					t.Fatalf("\t%s\tTest %d:\tShould get field errors: %v", failed, testID, err)
				}

				fields := validate.GetFieldErrors(err).Fields()
				for _, name := range tst.fields {
					if _, exists := fields[name]; !exists {
						t.Fatalf("\t%s\tTest %d:\tShould fail on field %s, got %v.", failed, testID, name, fields)
					}
				}
				if len(fields) != len(tst.fields) {
					t.Fatalf("\t%s\tTest %d:\tShould fail on exactly %v, got %v.", failed, testID, tst.fields, fields)
				}
				t.Logf("\t%s\tTest %d:\tShould fail on the expected fields: %v", success, testID, fields)
			}
		}
	}
}
