package functions

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/HanTheDev/recruit-api/internal/export"
	"github.com/gorilla/mux"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// JobReport downloads the interview reports of a job as a spreadsheet.
func (h *Handler) JobReport(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]
	company := companyID(r)

	job, err := h.store.GetJob(r.Context(), company, jobID)
	if err != nil {
		if isNotFound(err) {
			respondError(w, http.StatusNotFound, "Vaga não encontrada")
			return
		}
		log.Printf("Failed to load job %s: %v", jobID, err)
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	reports, err := h.store.ListInterviewReports(r.Context(), company, jobID)
	if err != nil {
		log.Printf("Failed to list interview reports for job %s: %v", jobID, err)
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteJobReport(&buf, *job, reports); err != nil {
		log.Printf("Failed to build report for job %s: %v", jobID, err)
		respondError(w, http.StatusInternalServerError, "Erro ao gerar relatório")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="relatorio-%s.xlsx"`, jobID))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Failed to write report for job %s: %v", jobID, err)
	}
}
