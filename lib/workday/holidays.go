package workday

type holidayDate struct {
	Month int
	Day   int
	Name  string
	Note  string
}

// yearSpecificHolidays holds official published calendars. Entries here win
// over the pattern tables for the years they cover, including years where a
// fixed-date holiday is observed on a different day.
var yearSpecificHolidays = map[string]map[int][]holidayDate{
	RegionMexico: {
		2024: {
			{1, 1, "Año Nuevo", ""},
			{2, 5, "Día de la Constitución", ""},
			{3, 18, "Natalicio de Benito Juárez", "Feriado puente"},
			{5, 1, "Día del Trabajo", ""},
			{9, 16, "Día de la Independencia Mexicana", ""},
			{11, 18, "Día de la Revolución Mexicana", "Feriado puente"},
			{12, 25, "Navidad", ""},
		},
		2025: {
			{1, 1, "Año Nuevo", ""},
			{2, 3, "Día de la Constitución", "Feriado puente. El festivo del 5 de febrero se traslada al lunes 3"},
			{3, 17, "Natalicio de Benito Juárez", "Feriado puente. El festivo del 21 de marzo se traslada al lunes 17"},
			{5, 1, "Día del Trabajo", ""},
			{9, 16, "Día de la Independencia Mexicana", ""},
			{11, 17, "Día de la Revolución Mexicana", "Feriado puente. El festivo del 20 de noviembre se traslada al lunes 17"},
			{12, 25, "Navidad", ""},
		},
		2026: {
			{1, 1, "Año Nuevo", ""},
			{2, 2, "Día de la Constitución", "Feriado puente. El festivo del 5 de febrero se traslada al lunes 2"},
			{3, 16, "Natalicio de Benito Juárez", "Feriado puente. El festivo del 21 de marzo se traslada al lunes 16"},
			{5, 1, "Día del Trabajo", "Feriado puente"},
			{9, 16, "Día de la Independencia Mexicana", ""},
			{11, 16, "Día de la Revolución Mexicana", "Feriado puente. El festivo del 20 de noviembre se traslada al lunes 16"},
			{12, 25, "Navidad", "Feriado puente"},
		},
	},
	RegionMadrid: {
		2026: {
			{1, 1, "Año Nuevo", ""},
			{1, 6, "Epifanía del Señor", ""},
			{4, 2, "Jueves Santo", ""},
			{4, 3, "Viernes Santo", ""},
			{5, 1, "Fiesta del Trabajo", ""},
			{5, 2, "Fiesta de la Comunidad de Madrid", ""},
			{8, 15, "Asunción de la Virgen", ""},
			{10, 12, "Fiesta Nacional de España", ""},
			{11, 2, "Traslado de Todos los Santos", ""},
			{12, 7, "Traslado del Día de la Constitución Española", ""},
			{12, 8, "Día de la Inmaculada Concepción", ""},
			{12, 25, "Natividad del Señor", ""},
		},
	},
	RegionAndalucia: {
		2026: {
			{1, 1, "Año Nuevo", ""},
			{1, 6, "Epifanía del Señor", ""},
			{2, 28, "Día de Andalucía", ""},
			{4, 2, "Jueves Santo", ""},
			{4, 3, "Viernes Santo", ""},
			{4, 22, "Miércoles de Feria", ""},
			{5, 1, "Fiesta del Trabajo", ""},
			{6, 4, "Fiesta del Corpus Cristi", ""},
			{8, 15, "Asunción de la Virgen", ""},
			{10, 12, "Fiesta Nacional de España", ""},
			{11, 2, "Festividad de todos los santos (Traslado)", ""},
			{12, 7, "Día de la Constitución (Traslado)", ""},
			{12, 8, "La Inmaculada Concepción", ""},
			{12, 25, "Natividad del Señor", ""},
		},
	},
	RegionColombia: {
		2026: colombia2026,
	},
	RegionBogota: {
		2026: colombia2026,
	},
	RegionChile: {
		2026: chile2026,
	},
	RegionSantiagoChile: {
		2026: chile2026,
	},
}

// Bogotá follows the Colombian national calendar, Santiago the Chilean one.
var colombia2026 = []holidayDate{
	{1, 1, "Año Nuevo", ""},
	{1, 12, "Reyes Magos", ""},
	{3, 23, "Día de San José", ""},
	{4, 2, "Jueves Santo", ""},
	{4, 3, "Viernes Santo", ""},
	{5, 1, "Día del trabajo", ""},
	{5, 18, "Ascensión de Jesús", ""},
	{6, 8, "Corpus Christi", ""},
	{6, 15, "Sagrado Corazón de Jesús", ""},
	{6, 29, "San Pedro y San Pablo", ""},
	{7, 20, "Día de la independencia", ""},
	{8, 7, "Batalla de Boyacá", ""},
	{8, 17, "Asunción de la Virgen", ""},
	{10, 12, "Día de la raza", ""},
	{11, 2, "Todos los Santos", ""},
	{11, 16, "Independencia de Cartagena", ""},
	{12, 8, "Inmaculada Concepción", ""},
	{12, 25, "Navidad", ""},
}

var chile2026 = []holidayDate{
	{1, 1, "Año Nuevo", "Irrenunciable"},
	{4, 3, "Viernes Santo", "Religioso"},
	{4, 4, "Sábado Santo", "Religioso"},
	{5, 1, "Día Nacional del Trabajo", "Irrenunciable"},
	{5, 21, "Día de las Glorias Navales", ""},
	{6, 21, "Día Nacional de los Pueblos Indígenas", ""},
	{6, 29, "San Pedro y San Pablo", "Religioso"},
	{7, 16, "Día de la Virgen del Carmen", "Religioso"},
	{8, 15, "Asunción de la Virgen", "Religioso"},
	{9, 18, "Independencia Nacional", "Irrenunciable"},
	{9, 19, "Día de las Glorias del Ejército", "Irrenunciable"},
	{10, 12, "Encuentro de Dos Mundos", ""},
	{10, 31, "Día de las Iglesias Evangélicas y Protestantes", "Religioso"},
	{11, 1, "Día de Todos los Santos", "Religioso"},
	{12, 8, "Inmaculada Concepción", "Religioso"},
	{12, 25, "Navidad", "Irrenunciable"},
}

// patternHolidays is the fixed month/day fallback for years without a
// published calendar. Movable feasts (Easter-linked days, statutory Monday
// moves) are approximated or absent here, so published calendars should be
// added as they appear.
var patternHolidays = map[string][]holidayDate{
	RegionMadrid: {
		{1, 1, "Año Nuevo", ""},
		{1, 6, "Epifanía del Señor / Día de Reyes", ""},
		{5, 1, "Fiesta del Trabajo", ""},
		{5, 2, "Fiesta de la Comunidad de Madrid", ""},
		{5, 15, "San Isidro (Patrón de Madrid)", ""},
		{8, 15, "Asunción de la Virgen", ""},
		{10, 12, "Fiesta Nacional de España", ""},
		{11, 1, "Todos los Santos", ""},
		{12, 6, "Día de la Constitución", ""},
		{12, 8, "Inmaculada Concepción", ""},
		{12, 25, "Navidad", ""},
	},
	RegionAndalucia: {
		{1, 1, "Año Nuevo", ""},
		{1, 6, "Epifanía del Señor / Día de Reyes", ""},
		{2, 28, "Día de Andalucía", ""},
		{5, 1, "Fiesta del Trabajo", ""},
		{8, 15, "Asunción de la Virgen", ""},
		{10, 12, "Fiesta Nacional de España", ""},
		{11, 1, "Todos los Santos", ""},
		{12, 6, "Día de la Constitución", ""},
		{12, 8, "Inmaculada Concepción", ""},
		{12, 25, "Navidad", ""},
	},
	RegionMexico: {
		{1, 1, "Año Nuevo", ""},
		{2, 5, "Día de la Constitución", ""},
		{3, 21, "Natalicio de Benito Juárez", ""},
		{5, 1, "Día del Trabajo", ""},
		{9, 16, "Día de la Independencia", ""},
		{11, 20, "Día de la Revolución", ""},
		{12, 25, "Navidad", ""},
	},
	RegionSantiagoChile: {
		{1, 1, "Año Nuevo", ""},
		{5, 1, "Día del Trabajo", ""},
		{5, 21, "Día de las Glorias Navales", ""},
		{6, 29, "San Pedro y San Pablo", ""},
		{7, 16, "Día de la Virgen del Carmen", ""},
		{8, 15, "Asunción de la Virgen", ""},
		{9, 18, "Primera Junta Nacional de Gobierno", ""},
		{9, 19, "Día de las Glorias del Ejército", ""},
		{10, 12, "Encuentro de Dos Mundos", ""},
		{11, 1, "Día de Todos los Santos", ""},
		{12, 8, "Inmaculada Concepción", ""},
		{12, 25, "Navidad", ""},
	},
	RegionCaracas: {
		{1, 1, "Año Nuevo", ""},
		{2, 19, "Día de la Federación", ""},
		{2, 20, "Carnaval", ""},
		{3, 19, "Día de San José", ""},
		{4, 19, "Declaración de la Independencia", ""},
		{5, 1, "Día del Trabajador", ""},
		{6, 24, "Batalla de Carabobo", ""},
		{7, 5, "Día de la Independencia", ""},
		{7, 24, "Natalicio del Libertador Simón Bolívar", ""},
		{10, 12, "Día de la Resistencia Indígena", ""},
		{12, 24, "Nochebuena", ""},
		{12, 25, "Navidad", ""},
		{12, 31, "Fin de Año", ""},
	},
	RegionBogota: {
		{1, 1, "Año Nuevo", ""},
		{1, 8, "Día de los Reyes Magos", ""},
		{3, 19, "Día de San José", ""},
		{5, 1, "Día del Trabajo", ""},
		{5, 29, "Ascensión del Señor", ""},
		{6, 19, "Corpus Christi", ""},
		{6, 26, "Sagrado Corazón de Jesús", ""},
		{7, 20, "Día de la Independencia", ""},
		{8, 7, "Batalla de Boyacá", ""},
		{8, 20, "Asunción de la Virgen", ""},
		{10, 15, "Día de la Raza", ""},
		{11, 5, "Día de Todos los Santos", ""},
		{11, 12, "Independencia de Cartagena", ""},
		{12, 8, "Inmaculada Concepción", ""},
		{12, 25, "Navidad", ""},
	},
}
