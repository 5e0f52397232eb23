// Пакет barcode строит URL внешнего сервиса рендеринга изображений кодов.
// Сама генерация изображения делегирована сервису и в зоне ответственности
// этого пакета не находится
package barcode

import (
	"net/url"
	"strings"

	"ProductMarksService/internal/ingest"
	"ProductMarksService/internal/model"
)

// renderBaseURL — адрес сервиса рендеринга DataMatrix/QR изображений
const renderBaseURL = "https://barcode.tec-it.com/barcode.ashx"

// CodeURL строит URL изображения кода для марки. В изображение кодируется
// brand марки:
// - КМЧЗ с разделителями GS1: разделители приводятся к управляющему символу,
//   сервису передаётся translate-esc=on
// - КМЧЗ без разделителей: полезная нагрузка оборачивается в разделители
// - КМДМ: простой DataMatrix без обработки разделителей
func CodeURL(m model.ProductMark) string {
	payload := m.Brand
	params := url.Values{}
	params.Set("code", "DataMatrix")
	params.Set("eclevel", "L")

	if m.MarkType == model.MarkTypeKMCHZ {
		payload = ingest.NormalizeSeparators(payload)
		if !strings.Contains(payload, ingest.GS1Separator) {
			payload = ingest.GS1Separator + payload + ingest.GS1Separator
		}
		params.Set("translate-esc", "on")
	}
	params.Set("data", payload)
	return renderBaseURL + "?" + params.Encode()
}
