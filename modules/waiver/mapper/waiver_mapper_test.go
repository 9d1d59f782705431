package mapper

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"conference-badge-api/modules/waiver/entity"

	"github.com/google/uuid"
	"github.com/matryer/is"
)

func TestToWaiverResponseIsSanitized(t *testing.T) {
	is := is.New(t)
	ip, ua := "203.0.113.7", "Mozilla/5.0"
	url := "https://cdn.example.com/a.pdf"

	resp := ToWaiverResponse(&entity.Waiver{
		ID:            uuid.New(),
		FirstName:     "John",
		LastName:      "Doe",
		DateOfBirth:   time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		SignatureData: entity.SignatureData{Image: "data:image/png;base64,SECRETSIG"},
		IPAddress:     &ip,
		UserAgent:     &ua,
		PDFURL:        &url,
	})
	is.Equal(resp.DateOfBirth, "1990-01-01")
	is.Equal(resp.PDFURL, url)

	body, err := json.Marshal(resp)
	is.NoErr(err)
	for _, leaked := range []string{"SECRETSIG", ip, ua} {
		is.True(!strings.Contains(string(body), leaked))
	}
}
