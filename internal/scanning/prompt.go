package scanning

// extractionPrompt is the shared instruction sent to every provider along with
// the receipt photo. The reply contract is a bare JSON object with exactly the
// keys local, data, valor and horario; parseExtraction enforces it.
const extractionPrompt = `Você está analisando a foto de uma nota fiscal ou recibo. Leia com atenção todo o texto da imagem e extraia as seguintes informações:

1. **Local**: o nome do estabelecimento (restaurante, estacionamento, pedágio, loja). Normalmente é o texto maior no topo da nota.

2. **Data**: a data da compra, no formato DD/MM/AAAA.

3. **Valor**: o valor total pago. Procure por "TOTAL", "VALOR PAGO" ou similar, normalmente no fim da nota. Extraia apenas o número (ex.: 23.50).

4. **Horário**: o horário da compra, no formato HH:MM.

Responda SOMENTE com JSON válido, exatamente neste formato:
{"local": "...", "data": "DD/MM/AAAA", "valor": 0.00, "horario": "HH:MM"}

Importante:
- O valor deve ser um número, não uma string
- Não inclua nenhum texto antes ou depois do JSON
- Não use blocos de código markdown`
