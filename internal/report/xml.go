package report

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/ginjaninja78/freight-tracker/internal/types"
)

// =============================================================================
// XML EXPORT OPTIONS
// =============================================================================

// XMLOptions contains options for the request XML export.
type XMLOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration writes <?xml version="1.0" encoding="UTF-8"?>.
	// Default: true
	IncludeXMLDeclaration bool

	// LoadID is written as an attribute of the root element when set.
	LoadID string
}

// DefaultXMLOptions returns the default export options.
func DefaultXMLOptions() XMLOptions {
	return XMLOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
	}
}

// =============================================================================
// XML DOCUMENT
// =============================================================================
//
// STRUCTURE:
//
//   <freight count="2" load="...">
//     <request n="1" demo="true">
//       <Status>CONCLUIDO (D)</Status>
//       <StatusCanonical>COMPLETED</StatusCanonical>
//       <Chassis><Item>X1</Item><Item>X2</Item></Chassis>
//       <ExpectedDate>2026-03-05</ExpectedDate>
//       <CostOwn>1500</CostOwn>
//       ...
//     </request>
//   </freight>

type requestsDocument struct {
	XMLName  xml.Name         `xml:"freight"`
	Count    int              `xml:"count,attr"`
	LoadID   string           `xml:"load,attr,omitempty"`
	Requests []requestElement `xml:"request"`
}

type requestElement struct {
	ID               int      `xml:"n,attr"`
	Demo             bool     `xml:"demo,attr,omitempty"`
	Status           string   `xml:"Status"`
	StatusCanonical  string   `xml:"StatusCanonical"`
	CarrierMode      string   `xml:"CarrierMode,omitempty"`
	DistanceKm       int      `xml:"DistanceKm"`
	CostOwn          string   `xml:"CostOwn"`
	CostThirdParty   string   `xml:"CostThirdParty"`
	Chassis          []string `xml:"Chassis>Item"`
	ExpectedDate     string   `xml:"ExpectedDate,omitempty"`
	ActualDate       string   `xml:"ActualDate,omitempty"`
	InvoiceRef       string   `xml:"InvoiceRef,omitempty"`
	Requester        string   `xml:"Requester,omitempty"`
	OriginLabel      string   `xml:"Origin,omitempty"`
	DestinationLabel string   `xml:"Destination,omitempty"`
	OriginCity       string   `xml:"OriginCity,omitempty"`
	DestinationCity  string   `xml:"DestinationCity,omitempty"`
	CostCity         string   `xml:"CostCity,omitempty"`
	MapLink          string   `xml:"MapLink,omitempty"`
	Notes            string   `xml:"Notes,omitempty"`
}

// WriteRequestsXML writes the request list as XML.
//
// PARAMETERS:
//   - w: Destination.
//   - records: Requests in the order they should appear.
//   - options: Indentation, declaration and load id.
//
// RETURNS:
//   - An error if marshalling or writing fails.
func WriteRequestsXML(w io.Writer, records []types.TransportRequest, options XMLOptions) error {
	doc := requestsDocument{
		Count:    len(records),
		LoadID:   options.LoadID,
		Requests: make([]requestElement, 0, len(records)),
	}
	for _, rec := range records {
		doc.Requests = append(doc.Requests, buildRequestElement(rec))
	}

	var buffer bytes.Buffer
	if options.IncludeXMLDeclaration {
		buffer.WriteString(xml.Header)
	}

	enc := xml.NewEncoder(&buffer)
	enc.Indent("", options.Indent)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to marshal XML: %w", err)
	}
	buffer.WriteString("\n")

	if _, err := w.Write(buffer.Bytes()); err != nil {
		return fmt.Errorf("failed to write XML: %w", err)
	}
	return nil
}

// buildRequestElement maps one request to its element. Dates use
// YYYY-MM-DD; an empty chassis list gets the placeholder.
func buildRequestElement(rec types.TransportRequest) requestElement {
	el := requestElement{
		ID:               rec.ID,
		Demo:             rec.IsDemo,
		Status:           rec.Status,
		StatusCanonical:  string(rec.StatusCanonical),
		CarrierMode:      rec.CarrierMode,
		DistanceKm:       rec.DistanceKm,
		CostOwn:          rec.CostOwn.String(),
		CostThirdParty:   rec.CostThirdParty.String(),
		Chassis:          rec.DisplayChassis(),
		InvoiceRef:       rec.InvoiceRef,
		Requester:        rec.Requester,
		OriginLabel:      rec.OriginLabel,
		DestinationLabel: rec.DestinationLabel,
		OriginCity:       string(rec.OriginCity),
		DestinationCity:  string(rec.DestinationCity),
		CostCity:         string(rec.CostCity),
		MapLink:          rec.MapLink,
		Notes:            rec.Notes,
	}
	if rec.ExpectedDate != nil {
		el.ExpectedDate = rec.ExpectedDate.Format("2006-01-02")
	}
	if rec.ActualDate != nil {
		el.ActualDate = rec.ActualDate.Format("2006-01-02")
	}
	return el
}
