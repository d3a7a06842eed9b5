package report

import (
	"fmt"

	"github.com/agroverde/avotrace/internal/models"
)

// Certificate renders the harvest-to-delivery traceability certificate
// for one tracking record, one block per stage.
func Certificate(t *models.AvocadoTracking) ([]byte, error) {
	c := newCanvas()
	c.title("Certificat de Traçabilité — Lot " + orNA(t.LotNumber))

	c.heading("Récolte")
	c.keyValue("Date", orNADate(t.Harvest.Date))
	c.keyValue("Parcelle", orNA(t.Harvest.Parcel))
	c.keyValue("Producteur", orNA(t.Harvest.Producer))
	c.keyValue("Variété", orNA(t.Harvest.Variety))
	c.keyValue("Poids brut", weightCell(t.Harvest.GrossKg))
	c.spacer(3)

	c.heading("Transport")
	c.keyValue("Date", orNADate(t.Transport.Date))
	c.keyValue("Transporteur", orNA(t.Transport.Carrier))
	c.keyValue("Véhicule", orNA(t.Transport.VehicleID))
	c.keyValue("Température", temperatureCell(t.Transport.Temperature))
	c.spacer(3)

	c.heading("Tri et calibrage")
	c.keyValue("Date", orNADate(t.Sorting.Date))
	c.keyValue("Ligne", orNA(t.Sorting.Line))
	c.keyValue("Accepté", weightCell(t.Sorting.AcceptedKg))
	c.keyValue("Rejeté", weightCell(t.Sorting.RejectedKg))
	c.spacer(3)

	c.heading("Conditionnement")
	c.keyValue("Date", orNADate(t.Packaging.Date))
	c.keyValue("Type de caisse", orNA(t.Packaging.BoxType))
	c.keyValue("Nombre de caisses", fmt.Sprintf("%d", t.Packaging.BoxCount))
	c.keyValue("Palette", orNA(t.Packaging.PaletteNo))
	c.spacer(3)

	c.heading("Stockage")
	c.keyValue("Date", orNADate(t.Storage.Date))
	c.keyValue("Chambre", orNA(t.Storage.Room))
	c.keyValue("Température", temperatureCell(t.Storage.Temperature))
	c.keyValue("Humidité", humidityCell(t.Storage.Humidity))
	c.spacer(3)

	c.heading("Export")
	c.keyValue("Date", orNADate(t.Export.Date))
	c.keyValue("Destination", orNA(t.Export.Destination))
	c.keyValue("Conteneur", orNA(t.Export.Container))
	c.keyValue("Scellé", orNA(t.Export.SealNumber))
	c.spacer(3)

	c.heading("Livraison")
	c.keyValue("Date", orNADate(t.Delivery.Date))
	c.keyValue("Client", orNA(t.Delivery.Client))
	received := "non"
	if t.Delivery.Received {
		received = "oui"
	}
	c.keyValue("Réceptionné", received)
	c.keyValue("Remarques", orNA(t.Delivery.Remarks))

	return c.output()
}

func weightCell(kg float64) string {
	if kg == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f kg", kg)
}

func temperatureCell(deg float64) string {
	if deg == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f °C", deg)
}

func humidityCell(pct float64) string {
	if pct == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.0f %%", pct)
}
