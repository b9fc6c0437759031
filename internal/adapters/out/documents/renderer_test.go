package documents_test

import (
	"context"
	"testing"

	"freight/internal/adapters/out/documents"
	"freight/internal/core/domain/model/dangerousgoods"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextRenderer_Declaration(t *testing.T) {
	renderer, err := documents.NewTextRenderer()
	require.NoError(t, err)

	doc := dangerousgoods.Document{
		Kind:  dangerousgoods.Declaration,
		Title: "Shipper's Declaration for Dangerous Goods",
		Mode:  "air",
		Lines: []dangerousgoods.DeclarationLine{
			{
				Key:                dangerousgoods.NewKey(1230, "II", "METHANOL"),
				PackingGroupText:   "II - medium danger",
				ClassDivision:      "3",
				Subrisks:           []string{"6.1"},
				Quantity:           "0.5",
				MeasurementUnit:    "L",
				PackingInstruction: "352",
				Tier:               "passenger",
			},
			{
				Key:           dangerousgoods.NewKey(1845, "", "DRY ICE"),
				ClassDivision: "9",
				Quantity:      "2",
			},
		},
	}

	rendered, err := renderer.Render(context.Background(), doc)
	require.NoError(t, err)

	text := string(rendered.Content)
	assert.Equal(t, "text/plain; charset=utf-8", rendered.ContentType)
	assert.Equal(t, dangerousgoods.Declaration, rendered.Kind)
	assert.Contains(t, text, "Transport mode: air")
	assert.Contains(t, text, "1. UN1230 METHANOL")
	assert.Contains(t, text, "Class 3 (6.1)")
	assert.Contains(t, text, "Packing group II - medium danger")
	assert.Contains(t, text, "Packing instruction 352 [passenger]")
	assert.Contains(t, text, "2. UN1845 DRY ICE")
}

func TestTextRenderer_SinglePages(t *testing.T) {
	renderer, err := documents.NewTextRenderer()
	require.NoError(t, err)

	tests := []struct {
		name string
		doc  dangerousgoods.Document
		want string
	}{
		{
			name: "placard",
			doc:  dangerousgoods.Document{Kind: dangerousgoods.Placard, Title: "Class 3", Mode: "ground"},
			want: "PLACARD\n\nClass 3\n",
		},
		{
			name: "battery insert",
			doc:  dangerousgoods.Document{Kind: dangerousgoods.BatteryInsert, Title: "Lithium Battery Handling Information"},
			want: "lithium batteries",
		},
		{
			name: "label",
			doc:  dangerousgoods.Document{Kind: dangerousgoods.Label, Title: "Cargo Aircraft Only", Mode: "air"},
			want: "Cargo Aircraft Only",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rendered, err := renderer.Render(context.Background(), tt.doc)
			require.NoError(t, err)
			assert.Contains(t, string(rendered.Content), tt.want)
		})
	}
}

func TestTextRenderer_UnknownKind(t *testing.T) {
	renderer, err := documents.NewTextRenderer()
	require.NoError(t, err)

	_, err = renderer.Render(context.Background(), dangerousgoods.Document{Kind: 42})

	require.Error(t, err)
}
