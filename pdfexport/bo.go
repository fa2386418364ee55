package pdfexport

import (
	"fmt"
	"time"

	"registrobo/model"
)

const dateLayout = "02/01/2006 15:04"

var boStyles = map[string]Style{
	"titulo":    {FontSize: 16, Bold: true, Alignment: AlignCenter, SpaceAfter: 4},
	"subtitulo": {FontSize: 9, Italic: true, Alignment: AlignCenter, SpaceAfter: 6},
	"rotulo":    {Bold: true, SpaceAfter: 1},
	"texto":     {Alignment: AlignJustify, SpaceAfter: 4},
}

func officerName(bo model.BO) string {
	if bo.Policial != nil && bo.Policial.Nome != "" {
		return bo.Policial.Nome
	}
	return fmt.Sprintf("Policial #%d", bo.PolicialID)
}

func field(label, value string) []Block {
	return []Block{
		Paragraph{Text: label, Style: "rotulo"},
		Paragraph{Text: value, Style: "texto"},
	}
}

// BODocument is the printable report of a single BO.
func BODocument(bo model.BO) Document {
	content := []Block{
		Paragraph{Text: fmt.Sprintf("Boletim de Ocorrência nº %d", bo.ID), Style: "titulo"},
		Paragraph{Text: "Registrado em " + bo.CreatedAt.UTC().Format(dateLayout) + " UTC", Style: "subtitulo"},
	}
	content = append(content, field("Comunicante", bo.Comunicante)...)
	content = append(content, field("Local", bo.Local)...)
	content = append(content, field("Data da ocorrência", bo.Data.UTC().Format(dateLayout)+" UTC")...)
	content = append(content, field("Policial responsável", officerName(bo))...)
	content = append(content, field("Descrição", bo.Descricao)...)

	return Document{
		Title:        fmt.Sprintf("BO %d", bo.ID),
		Author:       officerName(bo),
		DefaultStyle: Style{FontSize: defaultFontSize},
		Styles:       boStyles,
		PageNumbers:  true,
		Content:      content,
	}
}

// BOListDocument lists every BO in a table, in the order given.
func BOListDocument(bos []model.BO, generatedAt time.Time) Document {
	rows := make([][]string, 0, len(bos))
	for _, bo := range bos {
		rows = append(rows, []string{
			fmt.Sprintf("%d", bo.ID),
			bo.Data.UTC().Format(dateLayout),
			bo.Comunicante,
			bo.Local,
			officerName(bo),
			bo.Descricao,
		})
	}

	content := []Block{
		Paragraph{Text: "Boletins de Ocorrência", Style: "titulo"},
		Paragraph{Text: fmt.Sprintf("Gerado em %s UTC, %d registro(s)", generatedAt.UTC().Format(dateLayout), len(bos)), Style: "subtitulo"},
	}
	if len(bos) == 0 {
		content = append(content, Paragraph{Text: "Nenhum BO registrado.", Style: "texto"})
	} else {
		content = append(content, Table{
			Header: []string{"Nº", "Data", "Comunicante", "Local", "Policial", "Descrição"},
			Rows:   rows,
			Widths: []float64{0.6, 1.5, 1.6, 1.6, 1.5, 3.2},
		})
	}

	return Document{
		Title:        "Boletins de Ocorrência",
		Orientation:  Landscape,
		DefaultStyle: Style{FontSize: 10},
		Styles:       boStyles,
		PageNumbers:  true,
		Content:      content,
	}
}
