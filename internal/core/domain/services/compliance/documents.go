package compliance

import (
	"context"
	"fmt"

	"freight/internal/core/domain/model/dangerousgoods"
	"freight/internal/core/ports"
)

// BuildDocuments lists the documents a classified shipment needs, in print order:
// the declaration, one placard per hazard class, the battery insert, one page per label.
func BuildDocuments(res Result) []dangerousgoods.Document {
	var docs []dangerousgoods.Document

	if res.RequiresDeclaration() {
		decl := dangerousgoods.Document{
			Kind:  dangerousgoods.Declaration,
			Title: "Shipper's Declaration for Dangerous Goods",
			Mode:  res.Rules,
		}
		for _, o := range res.Outcomes {
			if o.State != Accepted || !o.Tier.IsRegulated() {
				continue
			}
			dg := res.Request.Packages[o.Package].DangerousGood
			if dg == nil {
				continue
			}
			line := dangerousgoods.DeclarationLine{
				Key:                o.Key,
				ClassDivision:      dg.ClassDivision,
				Subrisks:           dg.Subrisks,
				Quantity:           o.Quantity,
				MeasurementUnit:    dg.MeasurementUnit,
				PackingInstruction: dg.PackingInstruction,
				Tier:               o.Tier.String(),
			}
			if dg.Classification != nil {
				line.PackingGroupText = dg.Classification.PackingGroupText
			}
			decl.Lines = append(decl.Lines, line)
		}
		docs = append(docs, decl)
	}

	for _, class := range res.Placards {
		docs = append(docs, dangerousgoods.Document{
			Kind:  dangerousgoods.Placard,
			Title: fmt.Sprintf("Class %s", class),
			Mode:  res.Rules,
		})
	}

	if res.BatteryPresent {
		docs = append(docs, dangerousgoods.Document{
			Kind:  dangerousgoods.BatteryInsert,
			Title: "Lithium Battery Handling Information",
			Mode:  res.Rules,
		})
	}

	for _, label := range res.Labels {
		docs = append(docs, dangerousgoods.Document{
			Kind:  dangerousgoods.Label,
			Title: label,
			Mode:  res.Rules,
		})
	}

	return docs
}

// RenderDocuments renders BuildDocuments(res) in order. The first renderer error aborts.
func RenderDocuments(
	ctx context.Context,
	renderer ports.DocumentRenderer,
	res Result,
) ([]dangerousgoods.RenderedDocument, error) {
	docs := BuildDocuments(res)
	out := make([]dangerousgoods.RenderedDocument, 0, len(docs))
	for _, doc := range docs {
		rendered, err := renderer.Render(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", doc.Kind, err)
		}
		out = append(out, rendered)
	}
	return out, nil
}
