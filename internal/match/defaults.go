package match

// defaultSynonyms is the immutable built-in synonym table for the seeded
// categories. User-added synonyms are layered on top of it and never replace
// these entries.
var defaultSynonyms = map[string][]string{
	// Comida
	"1": {
		"comida", "alimentos", "restaurante", "desayuno", "almuerzo", "cena",
		"pizza", "hamburguesa", "sushi", "cafe", "cafeteria", "bar", "helado",
		"merienda", "postre", "comedor", "comer", "almorzar", "cenar", "desayunar",
	},
	// Transporte
	"2": {
		"transporte", "taxi", "colectivo", "subte", "bus", "gasolina", "combustible",
		"nafta", "tren", "pasaje", "viaje", "uber", "cabify", "remis", "peaje",
		"estacionamiento", "auto", "moto", "bicicleta", "monopatin",
	},
	// Compras
	"3": {
		"compras", "tienda", "ropa", "calzado", "zapatos", "camisa", "pantalon",
		"vestido", "accesorios", "reloj", "gafas", "lentes", "tecnologia", "electrodomesticos",
		"muebles", "decoracion", "casa", "hogar", "supermercado", "super", "abarrotes", "mercado",
	},
	// Entretenimiento
	"4": {
		"entretenimiento", "cine", "teatro", "concierto", "evento", "boleto", "entrada",
		"espectaculo", "juego", "videojuego", "musica", "streaming", "netflix", "spotify",
		"disney", "amazon", "fiesta", "salida", "paseo", "hobby", "deporte",
	},
	// Salud
	"5": {
		"salud", "medico", "doctor", "hospital", "clinica", "consulta", "medicamento",
		"farmacia", "remedio", "pastillas", "tratamiento", "terapia", "psicologo",
		"dentista", "odontologia", "seguro", "vitaminas", "suplementos",
	},
	// Facturas
	"6": {
		"facturas", "servicios", "luz", "electricidad", "agua", "gas", "internet",
		"telefono", "celular", "cable", "television", "alquiler", "renta", "hipoteca",
		"impuestos", "cuota", "mensualidad", "suscripcion", "membresia", "pago",
	},
	// Otros
	"7": {
		"otros", "varios", "miscelaneos", "diverso", "general", "adicional", "extra",
	},
}
