package intent

// Response templates of the default rule table.
const (
	feverResponse = `For fever management:

🌡️ **Monitor your temperature** regularly
💧 **Stay hydrated** - drink plenty of water, clear broths
🛏️ **Rest** - get adequate sleep and avoid strenuous activities
💊 **Fever reducers** - acetaminophen or ibuprofen as directed
❄️ **Cool compresses** - apply to forehead or wrists

**Seek medical attention if:**
• Fever above 103°F (39.4°C)
• Fever lasts more than 3 days
• Accompanied by severe symptoms
• Difficulty breathing or chest pain

**For emergencies, call 108**

*This is general information. Always consult healthcare professionals for proper diagnosis and treatment.*`

	headacheResponse = `For headache relief:

🛏️ **Rest** in a quiet, dark room
💧 **Stay hydrated** - dehydration can worsen headaches
❄️ **Cold/warm compress** - apply to head, neck, or shoulders
💆 **Gentle massage** - temples, neck, and shoulder areas
💊 **Pain relief** - over-the-counter medications as directed
😴 **Regular sleep** - maintain consistent sleep schedule

**See a doctor if:**
• Sudden severe headache
• Headache with fever, stiff neck, vision changes
• Frequent or worsening headaches
• Headache after head injury

**Emergency: Call 108**

*Consult healthcare professionals for persistent or severe headaches.*`

	dietResponse = `Healthy diet tips:

🥗 **Balanced meals:**
• 50% fruits and vegetables
• 25% lean proteins (chicken, fish, legumes)
• 25% whole grains (brown rice, quinoa, oats)

💧 **Hydration:** 8-10 glasses of water daily

🚫 **Limit:**
• Processed and packaged foods
• Sugary drinks and excessive sweets
• Trans fats and excessive salt

⏰ **Meal timing:**
• Eat regular meals
• Don't skip breakfast
• Smaller, frequent meals if preferred

🌿 **Include:**
• Nuts and seeds
• Healthy fats (olive oil, avocado)
• Plenty of fiber

*Consult a registered dietitian for personalized nutrition plans, especially if you have health conditions.*`

	exerciseResponse = `Exercise guidelines:

🏃 **Start slowly** - especially if you're new to exercise
⏰ **150 minutes** moderate exercise per week (WHO recommendation)

💪 **Include both:**
• **Cardio:** walking, swimming, cycling
• **Strength:** bodyweight exercises, weights

🧘 **Don't forget:**
• Flexibility and stretching
• Warm-up and cool-down
• Rest days for recovery

⚠️ **Safety tips:**
• Stay hydrated
• Listen to your body
• Stop if you feel pain
• Start with 10-15 minutes daily

**Consult a doctor before starting if you:**
• Have chronic conditions
• Are over 40 and sedentary
• Have heart conditions
• Take medications

*A fitness professional can create personalized workout plans.*`

	generalResponse = `For general health concerns:

🩺 **When to see a doctor:**
• Symptoms persist or worsen
• High fever or severe pain
• Difficulty breathing
• Chest pain or pressure
• Severe abdominal pain
• Sudden vision or speech changes

🏠 **Self-care basics:**
• Rest and adequate sleep
• Stay hydrated
• Eat nutritious foods
• Avoid stress when possible

📞 **Emergency contacts:**
• Emergency services: 108
• Poison control if needed
• Your regular doctor

*I provide general information only. For specific symptoms or health concerns, always consult qualified healthcare professionals for proper diagnosis and treatment.*`

	medicationResponse = `Medication safety:

💊 **Always:**
• Follow prescribed dosages exactly
• Take at recommended times
• Complete full courses (antibiotics)
• Store medications properly
• Check expiration dates

⚠️ **Never:**
• Share prescription medications
• Exceed recommended doses
• Mix medications without doctor approval
• Stop prescribed medications suddenly

🤔 **Questions to ask your doctor:**
• How and when to take medication
• Possible side effects
• Food/drink interactions
• Other medication interactions

📞 **Contact doctor if:**
• Side effects occur
• Symptoms don't improve
• You miss doses
• You have concerns

*Only qualified healthcare providers can prescribe and advise on medications. Never self-medicate.*`

	mentalHealthResponse = `Mental health support:

🧠 **Stress management:**
• Deep breathing exercises
• Regular physical activity
• Adequate sleep (7-9 hours)
• Connect with friends and family
• Practice mindfulness or meditation

📞 **Professional help:**
• Talk to your primary care doctor
• Consider counseling or therapy
• Mental health helplines available
• Don't hesitate to seek support

⚠️ **Seek immediate help if:**
• Thoughts of self-harm
• Severe depression or anxiety
• Unable to function daily
• Substance use concerns

🌟 **Remember:**
• Mental health is as important as physical health
• Seeking help is a sign of strength
• Treatment is effective and available

*Mental health professionals can provide proper assessment and treatment. Don't suffer in silence.*`

	fallbackResponse = `Thank you for your health question: "{input}"

🩺 **For specific health concerns, I recommend:**
• Consulting with a qualified healthcare professional
• Getting proper medical examination
• Following professional medical advice
• Keeping a symptom diary if ongoing

📞 **Emergency contacts:**
• Emergency services: 108
• Your family doctor
• Local hospital or clinic

💡 **I can help with general information about:**
• Common symptoms (fever, headache)
• Healthy lifestyle tips
• When to seek medical care
• Basic first aid guidance

*I provide general health information only and cannot replace professional medical advice, diagnosis, or treatment.*`
)

// Short-form templates used by the brief rule table.
const (
	briefFeverResponse = `For fever management:
• Rest and stay hydrated
• Take temperature regularly
• Use fever reducers as directed
• See a doctor if fever persists or is very high
• Seek immediate care if accompanied by severe symptoms

Please consult a healthcare provider for proper diagnosis.`

	briefHeadacheResponse = `For headache relief:
• Rest in a quiet, dark room
• Stay hydrated
• Apply cold/warm compress
• Gentle neck/shoulder massage
• Over-the-counter pain relievers as directed

Consult a doctor if headaches are severe or frequent.`

	briefDietResponse = `For healthy diet tips:
• Eat plenty of fruits and vegetables
• Choose whole grains
• Include lean proteins
• Stay hydrated
• Limit processed foods

Consult a nutritionist for personalized diet plans.`

	briefExerciseResponse = `For exercise advice:
• Start slowly and gradually increase intensity
• Include cardio and strength training
• Stay hydrated during workouts
• Get adequate rest between sessions
• Listen to your body

Consult a fitness professional or doctor before starting new routines.`

	briefFallbackResponse = `Thank you for your question about "{input}".

For health-related concerns, I recommend:
• Consulting with a qualified healthcare professional
• Getting proper medical examination and diagnosis
• Following professional medical advice
• For emergencies, call 108 or visit nearest hospital

I can provide general health information, but cannot replace professional medical advice.`
)
