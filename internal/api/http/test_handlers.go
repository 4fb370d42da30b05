package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/HalatsynZakhar/TeacherTest/internal/bank"
	"github.com/HalatsynZakhar/TeacherTest/internal/letters"
	"github.com/HalatsynZakhar/TeacherTest/internal/testgen"
	"github.com/HalatsynZakhar/TeacherTest/internal/variant"
	"github.com/HalatsynZakhar/TeacherTest/pkg/monitoring"
)

// maxUploadBytes bounds bank and key workbook uploads. Real banks are a
// few hundred rows; a megabyte-scale file is a mistake, not a bank.
const maxUploadBytes = 10 << 20

// POST /api/tests/generate  { "questions": [...], "params": {...} }
func GenerateHandler(svc *testgen.Service, alpha letters.Alphabet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Questions []bank.Question `json:"questions"`
			Params    variant.Params  `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := bank.ValidateAll(req.Questions, alpha); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res, err := svc.Generate(r.Context(), req.Questions, req.Params)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		monitoring.VariantsGenerated.Add(float64(len(res.Variants)))
		writeJSON(w, http.StatusOK, res)
	}
}

// POST /api/tests/generate/upload — multipart "bank" xlsx; generation
// params come from the query string.
func GenerateUploadHandler(svc *testgen.Service, alpha letters.Alphabet, defaultVariants int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "bad multipart form", http.StatusBadRequest)
			return
		}
		f, _, err := r.FormFile("bank")
		if err != nil {
			http.Error(w, `missing "bank" file`, http.StatusBadRequest)
			return
		}
		defer f.Close()

		p, err := paramsFromQuery(r.URL.Query(), defaultVariants)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		questions, err := bank.LoadWorkbook(f, alpha)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res, err := svc.Generate(r.Context(), questions, p)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		monitoring.VariantsGenerated.Add(float64(len(res.Variants)))
		writeJSON(w, http.StatusOK, res)
	}
}

func paramsFromQuery(q url.Values, defaultVariants int) (variant.Params, error) {
	p := variant.Params{
		NumVariants:   defaultVariants,
		QuestionOrder: q.Get("question_order"),
		OptionOrder:   q.Get("option_order"),
	}
	if s := q.Get("num_variants"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return p, fmt.Errorf("num_variants %q is not an integer", s)
		}
		p.NumVariants = n
	}
	return p, nil
}

// GET /api/bank/template — starter workbook download.
func BankTemplateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := bank.WriteTemplate(&buf); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		serveWorkbook(w, "bank-template.xlsx", &buf)
	}
}

func serveWorkbook(w http.ResponseWriter, filename string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}
