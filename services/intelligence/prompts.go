package ai

import "text/template"

// classifierInstruction is the system text for the intent gate. The user's
// text is sent separately as the user turn.
const classifierInstruction = `Eres el clasificador de intención del bot "Soy Nexo".
Decide si el mensaje del usuario es una BÚSQUEDA DE NEGOCIO o una CHARLA.

Es CHARLA si es un saludo, agradecimiento, despedida, pregunta de precios,
pregunta sobre quién eres o qué haces, o contiene groserías.
Responde exactamente: {"type":"CHAT","reply":"<respuesta corta y amable que invite a escribir el nombre de un negocio para auditarlo>"}
La respuesta no debe contener cifras de dinero.

Es BÚSQUEDA si el texto parece nombrar un negocio o intenta hacerlo
("tacos...", "dentista en...", "tienda..."). Los usuarios escriben con faltas
de ortografía ("piza", "taxos", "pajiente"): ante la duda, es BÚSQUEDA.
Responde exactamente: {"type":"SEARCH"}

Devuelve solo el JSON, sin texto adicional.`

// classifierSchema accepts exactly the two shapes above.
const classifierSchema = `{
	"oneOf": [
		{
			"type": "object",
			"properties": {
				"type": {"type": "string", "enum": ["CHAT"]},
				"reply": {"type": "string"}
			},
			"required": ["type", "reply"]
		},
		{
			"type": "object",
			"properties": {
				"type": {"type": "string", "enum": ["SEARCH"]}
			},
			"required": ["type"]
		}
	]
}`

// DefaultChatReply is used when the model gives a chat verdict without a
// usable reply, and for empty input.
const DefaultChatReply = "Hola 👋 Soy la IA de Nexo. Dime el nombre de tu negocio (y tu ciudad) para auditarlo."

var narrativeTemplate = template.Must(template.New("narrative").Parse(`Eres el Auditor Financiero Senior de "Soy Nexo". Tu objetivo es vender la solución mostrando el dinero que el negocio está perdiendo.

Datos REALES del negocio y hallazgos ya calculados (no inventes otros):
{{.Grounding}}

--- INSTRUCCIONES ---
Genera un reporte agresivo, profesional y directo en HTML usando solo <b>, <i> y <br>.
Usa únicamente los hallazgos listados en "hallazgos". No agregues fallas que no estén ahí.

Estructura obligatoria:
1. 📉 <b>DIAGNÓSTICO DE FUGAS:</b> lista cada hallazgo con su razón.
2. 💸 <b>VEREDICTO FINANCIERO:</b> "Calculo que estás dejando de ganar aproximadamente {{.Estimate}} al mes por estas fallas." Usa exactamente esa cifra, es la única cifra mensual total.
3. 🤖 <b>LA SOLUCIÓN:</b> "El Chatbot IA y la Web de Soy Nexo cierran estas fugas hoy mismo."
4. Cierra con una pregunta desafiante: "¿Vas a seguir perdiendo ese dinero o lo recuperamos?"

Sé breve, duro y usa emojis de dinero y alerta. No saludes. Ve directo al dinero.`))
