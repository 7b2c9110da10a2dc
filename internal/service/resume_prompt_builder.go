package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"resume-ragu/internal/domain"
	"resume-ragu/internal/llm"
	"resume-ragu/internal/prompts"
)

// ResumePromptBuilder arma la solicitud al proveedor: instrucciones, perfil serializado e historial.
// Es puro: mismas entradas producen la misma solicitud.
type ResumePromptBuilder struct {
	marshal func(v any) ([]byte, error)
}

func (b ResumePromptBuilder) encode(profile domain.Profile) ([]byte, error) {
	if b.marshal != nil {
		return b.marshal(profile)
	}
	return json.MarshalIndent(profile, "", "  ")
}

// Build compone el prompt de sistema y copia los mensajes en orden.
func (b ResumePromptBuilder) Build(profile domain.Profile, tpl prompts.Template, messages []domain.ConversationMessage) (llm.Request, error) {
	profile = profile.Clone()
	profile.Normalize()
	profileJSON, err := b.encode(profile)
	if err != nil {
		return llm.Request{}, fmt.Errorf("%w: %w", domain.ErrProfileSerialization, err)
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(tpl.Instructions))
	sb.WriteString("\n\n")
	if pre := strings.TrimSpace(tpl.ProfilePreamble); pre != "" {
		sb.WriteString(pre)
		sb.WriteString("\n\n")
	}
	sb.WriteString("<profile>\n")
	sb.Write(profileJSON)
	sb.WriteString("\n</profile>\n")
	if post := strings.TrimSpace(tpl.ProfilePostamble); post != "" {
		sb.WriteString("\n")
		sb.WriteString(post)
		sb.WriteString("\n")
	}

	out := make([]domain.ConversationMessage, len(messages))
	copy(out, messages)

	return llm.Request{System: sb.String(), Messages: out}, nil
}
