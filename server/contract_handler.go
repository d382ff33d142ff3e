package server

import (
	"encoding/json"
	"net/http"

	"tuneport/core/contract"
	"tuneport/logger"
	"tuneport/model"
)

// contractData assembles the generator input from a draft and an optional
// signature.
func contractData(d *model.ReleaseDraft, signatureDataURL string) contract.Data {
	return contract.Data{
		Requisites:       d.Requisites,
		ReleaseDate:      d.ReleaseDate,
		Tracks:           d.Tracks,
		CoverURL:         d.CoverURL,
		SignatureDataURL: signatureDataURL,
	}
}

// ContractPreviewHandler regenerates the contract document for a draft. The
// document is derived, never stored: every call reflects the draft's current
// state. The response carries both the on-screen HTML and its printable form.
func (h *APIHandler) ContractPreviewHandler(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadOwnedDraft(w, r)
	if !ok {
		return
	}

	var req struct {
		SignatureDataURL string `json:"signatureDataUrl"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	html, number := h.generator.Generate(contractData(d, req.SignatureDataURL))
	writeJSON(w, http.StatusOK, map[string]string{
		"contractNumber": number,
		"fileName":       contract.FileName(number, "pdf"),
		"html":           html,
		"printableHtml":  contract.PrintableHTML(html),
	})
}

// ContractPDFHandler builds the contract PDF for a draft and stores it in
// object storage. While a build for the same draft is running, further
// requests are turned away so the user cannot stack up duplicate work.
func (h *APIHandler) ContractPDFHandler(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadOwnedDraft(w, r)
	if !ok {
		return
	}

	var req struct {
		SignatureDataURL string `json:"signatureDataUrl"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	html, number := h.generator.Generate(contractData(d, req.SignatureDataURL))

	pdfData, err := h.pdfBuilder.Build(d.ID, html)
	if err == contract.ErrGenerationInFlight {
		writeError(w, http.StatusConflict, "Договор уже формируется, подождите")
		return
	}
	if err != nil {
		logger.Error("contract PDF build failed",
			logger.String("draftId", d.ID),
			logger.ErrorField(err),
		)
		writeError(w, http.StatusInternalServerError, "Не удалось сформировать PDF. Попробуйте ещё раз")
		return
	}

	fileName := contract.FileName(number, "pdf")
	uploaded, err := h.uploader.UploadContractPDF(r.Context(), fileName, pdfData)
	if err != nil {
		logger.Error("contract PDF upload failed",
			logger.String("draftId", d.ID),
			logger.ErrorField(err),
		)
		writeError(w, http.StatusInternalServerError, "Не удалось сохранить PDF. Попробуйте ещё раз")
		return
	}

	logger.Info("contract PDF generated",
		logger.String("draftId", d.ID),
		logger.String("contractNumber", number),
		logger.Int64("size", int64(len(pdfData))),
	)
	writeJSON(w, http.StatusOK, map[string]string{
		"contractNumber": number,
		"fileName":       fileName,
		"url":            uploaded.URL,
	})
}
